// Package status provides a thread-safe status tracker for the
// trailer-monitor daemon. It is read by HTTP handlers and serialized into
// MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs   int64
	LocateMs int64
	Broker   string
	HTTPAddr string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Reading       env.Environment
	HaveReading   bool
	Channels      env.Channels
	Triggers      env.TriggerConfig
	Powered       bool
	MQTTConnected bool
	JournalCount  int64
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
// The device is assumed to boot on external power.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Powered:   true,
			Config:    cfg,
		},
	}
}

// Update sets the latest reading and channel states.
// Called from runLoop on every tick.
func (t *Tracker) Update(reading env.Environment, channels env.Channels) {
	t.mu.Lock()
	t.snap.Reading = reading
	t.snap.HaveReading = true
	t.snap.Channels = channels
	t.mu.Unlock()
}

// SetTriggers records the trigger configuration in effect.
func (t *Tracker) SetTriggers(cfg env.TriggerConfig) {
	t.mu.Lock()
	t.snap.Triggers = cfg
	t.mu.Unlock()
}

// SetPowered sets the external power state.
func (t *Tracker) SetPowered(powered bool) {
	t.mu.Lock()
	t.snap.Powered = powered
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetJournalCount sets the number of journaled events.
func (t *Tracker) SetJournalCount(count int64) {
	t.mu.Lock()
	t.snap.JournalCount = count
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
