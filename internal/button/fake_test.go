package button

import (
	"testing"
	"time"
)

func TestFakeListenerDeliversPresses(t *testing.T) {
	f := NewFakeListener()
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	f.Press(at)

	select {
	case got := <-f.Presses():
		if !got.Equal(at) {
			t.Errorf("press time: got %v, want %v", got, at)
		}
	default:
		t.Fatal("expected a pending press")
	}
}

func TestFakeListenerClose(t *testing.T) {
	f := NewFakeListener()
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed {
		t.Error("Closed flag not set")
	}
}
