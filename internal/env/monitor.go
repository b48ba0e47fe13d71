package env

import "sync/atomic"

// Monitor is the hysteresis state machine for one (channel, direction) pair.
// The event counter increments atomically so a reporting goroutine may observe
// it while the tick goroutine evaluates, but the consume/snapshot bookkeeping
// in ConsumeEvents assumes a single reporting consumer.
type Monitor struct {
	direction  Direction
	state      State
	events     atomic.Uint64
	eventsLast uint64
	latched    bool
}

// NewMonitor creates a monitor in StateUnknown.
func NewMonitor(direction Direction) *Monitor {
	return &Monitor{direction: direction}
}

// Evaluate advances the state machine with one reading. When the monitor is
// disabled it holds state, counter, and latch without advancing — disabling
// suspends transitions, it does not reset anything.
func (m *Monitor) Evaluate(value float64, cfg Threshold) {
	if !cfg.Enabled {
		return
	}

	switch m.state {
	case StateUnknown:
		m.state = StateNormal
		fallthrough
	case StateNormal:
		if m.outside(value, cfg) {
			m.events.Add(1)
			m.latched = true
			m.state = StateOutsideLimit
		}

	case StateOutsideLimit:
		if !m.outside(value, cfg) {
			m.state = StateInsideLimit
		}

	case StateInsideLimit:
		if m.recovered(value, cfg) {
			m.latched = false
			m.state = StateNormal
		} else if m.outside(value, cfg) {
			// Re-crossed before clearing hysteresis. No new event: the
			// excursion that left Normal is already counted and latched.
			m.state = StateOutsideLimit
		}
	}
}

// outside reports whether value has crossed the trigger limit.
func (m *Monitor) outside(value float64, cfg Threshold) bool {
	if m.direction == High {
		return value >= cfg.Limit
	}
	return value <= cfg.Limit
}

// recovered reports whether value has passed back through the hysteresis band.
func (m *Monitor) recovered(value float64, cfg Threshold) bool {
	if m.direction == High {
		return value <= cfg.Limit-cfg.Hysteresis
	}
	return value >= cfg.Limit+cfg.Hysteresis
}

// ConsumeEvents returns the event signal since the previous call and resets
// the delta baseline. In latch mode the result is the current latch coerced
// to 0/1 ("still/again outside limit since last check"); otherwise it is the
// number of new Normal→OutsideLimit crossings since the previous call.
// Must be called by at most one consumer.
func (m *Monitor) ConsumeEvents(latch bool) uint64 {
	capture := m.events.Load()
	count := capture - m.eventsLast
	m.eventsLast = capture
	if latch {
		if m.latched {
			return 1
		}
		return 0
	}
	return count
}

// State returns the current hysteresis state.
func (m *Monitor) State() State {
	return m.state
}

// Latched reports whether the channel has been outside its limit since the
// latch was last cleared.
func (m *Monitor) Latched() bool {
	return m.latched
}

// EventCount returns the total number of crossings since process start.
// It does not reset the reporting baseline.
func (m *Monitor) EventCount() uint64 {
	return m.events.Load()
}
