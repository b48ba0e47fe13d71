//go:build !linux

package button

import (
	"errors"
	"time"
)

// RealListener is not available on non-Linux platforms.
type RealListener struct{}

// NewRealListener returns an error on non-Linux platforms.
func NewRealListener(chip string, pin int, debounce time.Duration) (*RealListener, error) {
	return nil, errors.New("button: not supported on this platform (requires Linux)")
}

// Presses is not implemented on non-Linux platforms.
func (l *RealListener) Presses() <-chan time.Time {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (l *RealListener) Close() error {
	return nil
}
