package button

import "time"

// FakeListener is a test double that delivers presses on demand.
type FakeListener struct {
	ch chan time.Time

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeListener creates a FakeListener.
func NewFakeListener() *FakeListener {
	return &FakeListener{ch: make(chan time.Time, 8)}
}

// Press injects one button press.
func (f *FakeListener) Press(at time.Time) {
	f.ch <- at
}

// Presses returns the press channel.
func (f *FakeListener) Presses() <-chan time.Time {
	return f.ch
}

// Close marks the listener as closed.
func (f *FakeListener) Close() error {
	f.Closed = true
	return nil
}
