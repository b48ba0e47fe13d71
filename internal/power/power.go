// Package power classifies the supply powering the device and detects
// transitions between external power and battery.
package power

// Trigger names published when the power state changes.
const (
	TriggerLost     = "pwr_l" // external power removed, running on battery
	TriggerRestored = "pwr_r" // external power restored
)

// Source reports whether external power is present.
type Source interface {
	Powered() (bool, error)
}

// Watcher turns power-state changes into named triggers.
// Not safe for concurrent use — driven from the tick loop only.
type Watcher struct {
	powered bool
}

// NewWatcher creates a watcher. It assumes the device boots with external
// power connected, so a loss is reported as soon as it is observed.
func NewWatcher() *Watcher {
	return &Watcher{powered: true}
}

// Check compares the observed state against the last known state and returns
// the trigger to publish when it changed.
func (w *Watcher) Check(powered bool) (trigger string, changed bool) {
	if powered == w.powered {
		return "", false
	}
	was := w.powered
	w.powered = powered
	if was {
		return TriggerLost, true
	}
	return TriggerRestored, true
}

// Powered returns the last known power state.
func (w *Watcher) Powered() bool {
	return w.powered
}
