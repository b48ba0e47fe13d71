// Package sensor provides environment readings with hardware abstraction.
// The real implementation reads Linux IIO sysfs attributes.
// The fake implementation allows testing without hardware.
package sensor

import "github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"

// Reader produces one environment reading per call.
type Reader interface {
	// Read returns the current temperature and humidity.
	Read() (env.Environment, error)

	// Close releases sensor resources.
	Close() error
}

// Default IIO sysfs attribute paths for an SHT3x-class sensor.
const (
	DefaultTempPath = "/sys/bus/iio/devices/iio:device0/in_temp_input"
	DefaultHumPath  = "/sys/bus/iio/devices/iio:device0/in_humidityrelative_input"
)
