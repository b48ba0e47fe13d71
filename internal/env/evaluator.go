package env

// Evaluator drives the four channel monitors (temperature high/low, humidity
// high/low) from one reading per tick. It has no state of its own beyond the
// monitors and the configuration seen by the last Evaluate call.
type Evaluator struct {
	tempHigh *Monitor
	tempLow  *Monitor
	humHigh  *Monitor
	humLow   *Monitor
	cfg      TriggerConfig
}

// NewEvaluator creates an evaluator with all four monitors in StateUnknown.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		tempHigh: NewMonitor(High),
		tempLow:  NewMonitor(Low),
		humHigh:  NewMonitor(High),
		humLow:   NewMonitor(Low),
	}
}

// Evaluate feeds one reading to all four monitors. cfg is the trigger
// configuration in effect for this tick; it is retained so the event
// accessors consult the same per-channel latch flags the evaluation used.
func (e *Evaluator) Evaluate(reading Environment, cfg TriggerConfig) {
	e.cfg = cfg

	e.tempHigh.Evaluate(reading.Temperature, Threshold{
		Limit:      cfg.TempHigh,
		Enabled:    cfg.TempHighEnable,
		Latch:      cfg.TempHighLatch,
		Hysteresis: cfg.TempHysteresis,
	})
	e.tempLow.Evaluate(reading.Temperature, Threshold{
		Limit:      cfg.TempLow,
		Enabled:    cfg.TempLowEnable,
		Latch:      cfg.TempLowLatch,
		Hysteresis: cfg.TempHysteresis,
	})
	e.humHigh.Evaluate(reading.Humidity, Threshold{
		Limit:      cfg.HumHigh,
		Enabled:    cfg.HumHighEnable,
		Latch:      cfg.HumHighLatch,
		Hysteresis: cfg.HumHysteresis,
	})
	e.humLow.Evaluate(reading.Humidity, Threshold{
		Limit:      cfg.HumLow,
		Enabled:    cfg.HumLowEnable,
		Latch:      cfg.HumLowLatch,
		Hysteresis: cfg.HumHysteresis,
	})
}

// The event accessors below consume the per-monitor event signal since the
// previous call (see Monitor.ConsumeEvents). They are intended to be polled
// once per tick by a single downstream publisher.

// TempHighEvents returns the high-temperature event signal since the last call.
func (e *Evaluator) TempHighEvents() uint64 {
	return e.tempHigh.ConsumeEvents(e.cfg.TempHighLatch)
}

// TempLowEvents returns the low-temperature event signal since the last call.
func (e *Evaluator) TempLowEvents() uint64 {
	return e.tempLow.ConsumeEvents(e.cfg.TempLowLatch)
}

// HumHighEvents returns the high-humidity event signal since the last call.
func (e *Evaluator) HumHighEvents() uint64 {
	return e.humHigh.ConsumeEvents(e.cfg.HumHighLatch)
}

// HumLowEvents returns the low-humidity event signal since the last call.
func (e *Evaluator) HumLowEvents() uint64 {
	return e.humLow.ConsumeEvents(e.cfg.HumLowLatch)
}

// ChannelStatus is a read-only view of one monitor for status reporting.
type ChannelStatus struct {
	State   State
	Events  uint64
	Latched bool
}

// Channels is a read-only view of all four monitors.
type Channels struct {
	TempHigh ChannelStatus
	TempLow  ChannelStatus
	HumHigh  ChannelStatus
	HumLow   ChannelStatus
}

// Channels returns the current state of all four monitors without touching
// the reporting baselines.
func (e *Evaluator) Channels() Channels {
	return Channels{
		TempHigh: channelStatus(e.tempHigh),
		TempLow:  channelStatus(e.tempLow),
		HumHigh:  channelStatus(e.humHigh),
		HumLow:   channelStatus(e.humLow),
	}
}

func channelStatus(m *Monitor) ChannelStatus {
	return ChannelStatus{
		State:   m.State(),
		Events:  m.EventCount(),
		Latched: m.Latched(),
	}
}
