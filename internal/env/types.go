// Package env contains pure threshold-trigger logic for environment readings.
// This package has NO external dependencies (no sensors, MQTT, OS, or clocks).
// Readings and configuration are always passed in per evaluation.
package env

// Environment is a single sensor reading.
type Environment struct {
	Temperature float64 // degrees Celsius
	Humidity    float64 // percent relative humidity
}

// Direction selects which side of a threshold triggers an event.
type Direction int

const (
	High Direction = iota
	Low
)

// State is the hysteresis state of a single (channel, direction) pair.
type State int

const (
	// StateUnknown is the initial state before the first enabled evaluation.
	StateUnknown State = iota
	// StateNormal means the value is inside the limit and not pending a pass
	// through the hysteresis band.
	StateNormal
	// StateOutsideLimit means the value has crossed the trigger limit.
	StateOutsideLimit
	// StateInsideLimit means the value is back inside the limit but has not
	// yet cleared the hysteresis band.
	StateInsideLimit
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateOutsideLimit:
		return "OUTSIDE_LIMIT"
	case StateInsideLimit:
		return "INSIDE_LIMIT"
	default:
		return "UNKNOWN"
	}
}

// Trigger names published when a monitor fires.
const (
	TriggerTempHigh = "envtemp_h"
	TriggerTempLow  = "envtemp_l"
	TriggerHumHigh  = "envhum_h"
	TriggerHumLow   = "envhum_l"
)

// Threshold is the configuration in effect for one monitor during one
// evaluation. Assembled from TriggerConfig by the Evaluator.
type Threshold struct {
	Limit      float64
	Enabled    bool
	Latch      bool
	Hysteresis float64 // margin beyond Limit required to return to Normal
}

// TriggerConfig holds the full trigger parameter group: high/low thresholds,
// enables and latch flags per channel, plus one hysteresis width per channel
// shared between its high and low monitors.
type TriggerConfig struct {
	TempHigh       float64
	TempHighEnable bool
	TempHighLatch  bool
	TempLow        float64
	TempLowEnable  bool
	TempLowLatch   bool
	TempHysteresis float64

	HumHigh       float64
	HumHighEnable bool
	HumHighLatch  bool
	HumLow        float64
	HumLowEnable  bool
	HumLowLatch   bool
	HumHysteresis float64
}

// Physical measurement range of the external temperature/humidity sensor.
// Threshold writes are clamped to these bounds by the configuration registry.
const (
	MinTemperature = -40.0
	MaxTemperature = 150.0
	MinHumidity    = 0.0
	MaxHumidity    = 100.0
)

// Default trigger thresholds.
const (
	DefaultTempHigh       = 45.0 // degrees Celsius
	DefaultTempLow        = 25.0 // degrees Celsius
	DefaultTempHysteresis = 5.0  // degrees Celsius
	DefaultHumHigh        = 95.0 // percent
	DefaultHumLow         = 25.0 // percent
	DefaultHumHysteresis  = 5.0  // percent
)

// DefaultTriggerConfig returns the boot configuration: all channels disabled,
// latch mode on, default thresholds.
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		TempHigh:       DefaultTempHigh,
		TempHighLatch:  true,
		TempLow:        DefaultTempLow,
		TempLowLatch:   true,
		TempHysteresis: DefaultTempHysteresis,
		HumHigh:        DefaultHumHigh,
		HumHighLatch:   true,
		HumLow:         DefaultHumLow,
		HumLowLatch:    true,
		HumHysteresis:  DefaultHumHysteresis,
	}
}
