package power

import (
	"fmt"
	"os"
	"strings"
)

// DefaultSupplyPath is the usual sysfs attribute for the external supply.
const DefaultSupplyPath = "/sys/class/power_supply/AC/online"

// SysfsSource reads a Linux power_supply "online" attribute.
type SysfsSource struct {
	path string
}

// NewSysfsSource creates a source for the given attribute path.
func NewSysfsSource(path string) *SysfsSource {
	return &SysfsSource{path: path}
}

// Powered reports whether the supply attribute reads "1".
func (s *SysfsSource) Powered() (bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("read power supply: %w", err)
	}
	return strings.TrimSpace(string(raw)) == "1", nil
}
