// Package config loads daemon configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full daemon configuration.
type Config struct {
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Poll    PollConfig    `yaml:"poll"`
	HTTP    HTTPConfig    `yaml:"http"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Power   PowerConfig   `yaml:"power"`
	Button  ButtonConfig  `yaml:"button"`
	Journal JournalConfig `yaml:"journal"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker" env:"TRAILER_MQTT_BROKER" env-default:"tcp://127.0.0.1:1883"`
	ClientID string `yaml:"client_id" env:"TRAILER_MQTT_CLIENT_ID" env-default:"trailer-monitor"`
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval" env:"TRAILER_POLL_INTERVAL" env-default:"1s"`
	Locate   time.Duration `yaml:"locate" env:"TRAILER_LOCATE_INTERVAL" env-default:"15m"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" env:"TRAILER_HTTP_ADDR" env-default:":8080"`
}

type SensorConfig struct {
	TempPath string `yaml:"temp_path" env:"TRAILER_SENSOR_TEMP" env-default:"/sys/bus/iio/devices/iio:device0/in_temp_input"`
	HumPath  string `yaml:"hum_path" env:"TRAILER_SENSOR_HUM" env-default:"/sys/bus/iio/devices/iio:device0/in_humidityrelative_input"`
}

type PowerConfig struct {
	SupplyPath string `yaml:"supply_path" env:"TRAILER_POWER_SUPPLY" env-default:"/sys/class/power_supply/AC/online"`
}

type ButtonConfig struct {
	Enabled  bool          `yaml:"enabled" env:"TRAILER_BUTTON_ENABLED" env-default:"true"`
	Chip     string        `yaml:"chip" env:"TRAILER_BUTTON_CHIP" env-default:"gpiochip0"`
	Pin      int           `yaml:"pin" env:"TRAILER_BUTTON_PIN" env-default:"6"`
	Debounce time.Duration `yaml:"debounce" env:"TRAILER_BUTTON_DEBOUNCE" env-default:"20ms"`
}

type JournalConfig struct {
	Enabled bool          `yaml:"enabled" env:"TRAILER_JOURNAL_ENABLED" env-default:"true"`
	Path    string        `yaml:"path" env:"TRAILER_JOURNAL_PATH" env-default:"/var/lib/trailer-monitor/events.db"`
	MaxAge  time.Duration `yaml:"max_age" env:"TRAILER_JOURNAL_MAX_AGE" env-default:"720h"`
}

// Load reads configuration from path, then applies environment overrides.
// An empty path loads from the environment and defaults alone. A non-empty
// path that does not exist is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &cfg, nil
}
