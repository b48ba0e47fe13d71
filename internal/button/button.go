// Package button handles the external user button with hardware abstraction.
// The real implementation uses Linux GPIO character device edge events.
// The fake implementation allows testing without hardware.
package button

import "time"

// Listener delivers debounced button presses.
type Listener interface {
	// Presses returns a channel that delivers one timestamp per press.
	// Presses arriving while the consumer is busy are dropped.
	Presses() <-chan time.Time

	// Close releases GPIO resources.
	Close() error
}

// Defaults for the user button (BCM numbering).
const (
	DefaultChip     = "gpiochip0"
	DefaultPin      = 6
	DefaultDebounce = 20 * time.Millisecond
)
