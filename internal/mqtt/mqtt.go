// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
)

// Topic is the MQTT topic for trigger (location-style) events.
const Topic = "trailer/monitor/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "trailer/monitor/system"

// TopicConfigSet is the MQTT topic the daemon subscribes to for remote
// configuration updates.
const TopicConfigSet = "trailer/monitor/config/set"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishTrigger sends a trigger event to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishTrigger(event TriggerEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// TriggerEvent is one outbound trigger publish: the trigger name plus the
// environment and power readings in effect when it fired.
type TriggerEvent struct {
	Timestamp   time.Time
	Trigger     string // e.g. "envtemp_h", "pwr_l", "user", "time"
	Reading     env.Environment
	HaveReading bool // false before the first successful sensor read
	Powered     bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Trailer TrailerPayload `json:"trailer"`
}

// TrailerPayload contains the trigger event details. Field names follow the
// tracker location publish: env_t, env_h, pwr. env_t/env_h are omitted until
// a sensor reading exists, so a power or button event fired before the first
// read does not report zeros as measurements.
type TrailerPayload struct {
	Timestamp   string   `json:"timestamp"`
	Trigger     string   `json:"trigger"`
	Temperature *float64 `json:"env_t,omitempty"`
	Humidity    *float64 `json:"env_h,omitempty"`
	Powered     int      `json:"pwr"`
}

// FormatTriggerPayload creates the JSON payload for a trigger event.
func FormatTriggerPayload(event TriggerEvent) ([]byte, error) {
	powered := 0
	if event.Powered {
		powered = 1
	}
	inner := TrailerPayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Trigger:   event.Trigger,
		Powered:   powered,
	}
	if event.HaveReading {
		temp := event.Reading.Temperature
		hum := event.Reading.Humidity
		inner.Temperature = &temp
		inner.Humidity = &hum
	}
	return json.Marshal(Payload{Trailer: inner})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
