package env

import "testing"

// allEnabled returns a default config with every channel enabled and latch
// mode off unless stated otherwise.
func allEnabled() TriggerConfig {
	cfg := DefaultTriggerConfig()
	cfg.TempHighEnable = true
	cfg.TempHighLatch = false
	cfg.TempLowEnable = true
	cfg.TempLowLatch = false
	cfg.HumHighEnable = true
	cfg.HumHighLatch = false
	cfg.HumLowEnable = true
	cfg.HumLowLatch = false
	return cfg
}

func TestEvaluatorRoutesScalars(t *testing.T) {
	e := NewEvaluator()
	cfg := allEnabled()

	// Hot and dry: temp-high and hum-low trip, the other two stay Normal.
	e.Evaluate(Environment{Temperature: 50, Humidity: 10}, cfg)

	ch := e.Channels()
	if ch.TempHigh.State != StateOutsideLimit || ch.TempHigh.Events != 1 {
		t.Errorf("temp-high: got %+v", ch.TempHigh)
	}
	if ch.HumLow.State != StateOutsideLimit || ch.HumLow.Events != 1 {
		t.Errorf("hum-low: got %+v", ch.HumLow)
	}
	if ch.TempLow.State != StateNormal || ch.TempLow.Events != 0 {
		t.Errorf("temp-low: got %+v", ch.TempLow)
	}
	if ch.HumHigh.State != StateNormal || ch.HumHigh.Events != 0 {
		t.Errorf("hum-high: got %+v", ch.HumHigh)
	}
}

func TestEvaluatorMonitorsAreIndependent(t *testing.T) {
	e := NewEvaluator()
	cfg := allEnabled()

	// Trip temp-high, then recover it while hum-high trips. Counters and
	// latches must not interfere.
	e.Evaluate(Environment{Temperature: 50, Humidity: 50}, cfg)
	e.Evaluate(Environment{Temperature: 40, Humidity: 96}, cfg)
	e.Evaluate(Environment{Temperature: 40, Humidity: 96}, cfg)

	if got := e.TempHighEvents(); got != 1 {
		t.Errorf("temp-high events: got %d, want 1", got)
	}
	if got := e.HumHighEvents(); got != 1 {
		t.Errorf("hum-high events: got %d, want 1", got)
	}
	if got := e.TempLowEvents(); got != 0 {
		t.Errorf("temp-low events: got %d, want 0", got)
	}
	if got := e.HumLowEvents(); got != 0 {
		t.Errorf("hum-low events: got %d, want 0", got)
	}
}

func TestEvaluatorEndToEnd(t *testing.T) {
	// Defaults (temp high 45, disabled), then enable the channel and feed
	// [30, 46, 44, 40, 39]: the counter goes 0,1,1,1,1 and a single report
	// at the end returns 1 in both latch and count modes.
	for _, latch := range []bool{true, false} {
		e := NewEvaluator()
		cfg := DefaultTriggerConfig()
		cfg.TempHighEnable = true
		cfg.TempHighLatch = latch

		readings := []float64{30, 46, 44, 40, 39}
		wantCounts := []uint64{0, 1, 1, 1, 1}

		for i, temp := range readings {
			e.Evaluate(Environment{Temperature: temp, Humidity: 50}, cfg)
			if got := e.Channels().TempHigh.Events; got != wantCounts[i] {
				t.Errorf("latch=%v reading %d (%.0f): counter got %d, want %d",
					latch, i, temp, got, wantCounts[i])
			}
		}

		// The reading of 40 cleared hysteresis (45-5), so by the time the
		// report runs the latch is off again: latch mode sees 0, count mode
		// sees the one crossing.
		want := uint64(1)
		if latch {
			want = 0
		}
		if got := e.TempHighEvents(); got != want {
			t.Errorf("latch=%v report: got %d, want %d", latch, got, want)
		}
	}
}

func TestEvaluatorLatchFlagReadPerCall(t *testing.T) {
	e := NewEvaluator()

	cfg := allEnabled()
	cfg.TempHighLatch = true
	e.Evaluate(Environment{Temperature: 50, Humidity: 50}, cfg)

	if got := e.TempHighEvents(); got != 1 {
		t.Fatalf("latch report: got %d, want 1", got)
	}

	// Flip the channel to count mode on the next tick: the earlier latch
	// report already consumed the delta, so nothing is replayed.
	cfg.TempHighLatch = false
	e.Evaluate(Environment{Temperature: 50, Humidity: 50}, cfg)
	if got := e.TempHighEvents(); got != 0 {
		t.Errorf("count report after latch report: got %d, want 0", got)
	}
}

func TestEvaluatorSharedHysteresisPerChannel(t *testing.T) {
	e := NewEvaluator()
	cfg := allEnabled()
	cfg.TempHysteresis = 10

	// temp-high trips at 45 and must not recover until <= 35.
	e.Evaluate(Environment{Temperature: 50, Humidity: 50}, cfg)
	e.Evaluate(Environment{Temperature: 37, Humidity: 50}, cfg)
	if st := e.Channels().TempHigh.State; st != StateInsideLimit {
		t.Errorf("expected INSIDE_LIMIT at 37 with widened hysteresis, got %v", st)
	}
	e.Evaluate(Environment{Temperature: 35, Humidity: 50}, cfg)
	if st := e.Channels().TempHigh.State; st != StateNormal {
		t.Errorf("expected NORMAL at 35, got %v", st)
	}
}

func TestDefaultTriggerConfig(t *testing.T) {
	cfg := DefaultTriggerConfig()

	if cfg.TempHighEnable || cfg.TempLowEnable || cfg.HumHighEnable || cfg.HumLowEnable {
		t.Error("all channels must boot disabled")
	}
	if !cfg.TempHighLatch || !cfg.TempLowLatch || !cfg.HumHighLatch || !cfg.HumLowLatch {
		t.Error("all channels must boot in latch mode")
	}
	if cfg.TempHigh != 45 || cfg.TempLow != 25 || cfg.TempHysteresis != 5 {
		t.Errorf("temperature defaults: %+v", cfg)
	}
	if cfg.HumHigh != 95 || cfg.HumLow != 25 || cfg.HumHysteresis != 5 {
		t.Errorf("humidity defaults: %+v", cfg)
	}
}
