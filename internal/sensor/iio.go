package sensor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
)

// IIOReader reads temperature and humidity from Linux IIO sysfs attributes.
// The attributes report milli-units (millidegrees Celsius, milli-percent RH),
// which Read converts to degrees and percent.
type IIOReader struct {
	tempPath string
	humPath  string
}

// NewIIOReader creates a reader for the given attribute paths. It reads both
// attributes once so a missing or unreadable sensor fails at startup rather
// than on the first tick.
func NewIIOReader(tempPath, humPath string) (*IIOReader, error) {
	r := &IIOReader{tempPath: tempPath, humPath: humPath}
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("probe sensor: %w", err)
	}
	return r, nil
}

// Read returns the current environment reading.
func (r *IIOReader) Read() (env.Environment, error) {
	temp, err := readMilli(r.tempPath)
	if err != nil {
		return env.Environment{}, fmt.Errorf("read temperature: %w", err)
	}

	hum, err := readMilli(r.humPath)
	if err != nil {
		return env.Environment{}, fmt.Errorf("read humidity: %w", err)
	}

	return env.Environment{Temperature: temp, Humidity: hum}, nil
}

// Close releases sensor resources. Sysfs attributes are opened per read, so
// there is nothing to release.
func (r *IIOReader) Close() error {
	return nil
}

func readMilli(path string) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return v / 1000, nil
}
