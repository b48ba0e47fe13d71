//go:build linux

package button

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealListener watches a GPIO line for falling edges on actual hardware.
type RealListener struct {
	line    *gpiocdev.Line
	presses chan time.Time
}

// NewRealListener requests the button line as a debounced, pulled-up input
// and reports falling edges (button pressed to ground).
func NewRealListener(chip string, pin int, debounce time.Duration) (*RealListener, error) {
	l := &RealListener{presses: make(chan time.Time, 1)}

	line, err := gpiocdev.RequestLine(chip, pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithDebounce(debounce),
		gpiocdev.WithEventHandler(l.handleEvent))
	if err != nil {
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}

	l.line = line
	return l, nil
}

func (l *RealListener) handleEvent(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}
	// Drop the press if the loop has not consumed the previous one yet.
	select {
	case l.presses <- time.Now():
	default:
	}
}

// Presses returns the press channel.
func (l *RealListener) Presses() <-chan time.Time {
	return l.presses
}

// Close releases the GPIO line.
func (l *RealListener) Close() error {
	l.line.Close()
	return nil
}
