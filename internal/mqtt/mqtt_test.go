package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
)

func TestFormatTriggerPayload(t *testing.T) {
	event := TriggerEvent{
		Timestamp:   time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
		Trigger:     "envtemp_h",
		Reading:     env.Environment{Temperature: 46.5, Humidity: 52.25},
		HaveReading: true,
		Powered:     true,
	}

	data, err := FormatTriggerPayload(event)
	if err != nil {
		t.Fatalf("FormatTriggerPayload: %v", err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if payload.Trailer.Timestamp != "2026-08-01T10:30:00Z" {
		t.Errorf("timestamp: got %q", payload.Trailer.Timestamp)
	}
	if payload.Trailer.Trigger != "envtemp_h" {
		t.Errorf("trigger: got %q", payload.Trailer.Trigger)
	}
	if payload.Trailer.Temperature == nil || *payload.Trailer.Temperature != 46.5 {
		t.Errorf("env_t: got %v", payload.Trailer.Temperature)
	}
	if payload.Trailer.Humidity == nil || *payload.Trailer.Humidity != 52.25 {
		t.Errorf("env_h: got %v", payload.Trailer.Humidity)
	}
	if payload.Trailer.Powered != 1 {
		t.Errorf("pwr: got %v, want 1", payload.Trailer.Powered)
	}
}

func TestFormatTriggerPayloadUnpowered(t *testing.T) {
	data, err := FormatTriggerPayload(TriggerEvent{
		Timestamp: time.Now(),
		Trigger:   "pwr_l",
	})
	if err != nil {
		t.Fatalf("FormatTriggerPayload: %v", err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Trailer.Powered != 0 {
		t.Errorf("pwr: got %v, want 0", payload.Trailer.Powered)
	}
}

func TestFormatTriggerPayloadOmitsMissingReading(t *testing.T) {
	data, err := FormatTriggerPayload(TriggerEvent{
		Timestamp: time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
		Trigger:   "pwr_l",
	})
	if err != nil {
		t.Fatalf("FormatTriggerPayload: %v", err)
	}

	if strings.Contains(string(data), "env_t") || strings.Contains(string(data), "env_h") {
		t.Errorf("payload must omit env fields before the first reading: %s", data)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Trailer.Temperature != nil || payload.Trailer.Humidity != nil {
		t.Errorf("env fields should be nil: %+v", payload.Trailer)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var payload SystemPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", payload.System.Event)
	}
	if payload.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", payload.System.Reason)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"custom":true}}`)
	data, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: got %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := TriggerEvent{Timestamp: time.Now(), Trigger: "envhum_l"}
	if err := f.PublishTrigger(event); err != nil {
		t.Fatalf("PublishTrigger: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	if len(f.Triggers) != 1 || f.Triggers[0].Trigger != "envhum_l" {
		t.Errorf("triggers: got %+v", f.Triggers)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("payloads: got %d, want 1", len(f.Payloads))
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("system events: got %+v", f.SystemEvents)
	}

	if got := f.TriggerNames(); len(got) != 1 || got[0] != "envhum_l" {
		t.Errorf("TriggerNames: got %v", got)
	}

	f.Reset()
	if len(f.Triggers) != 0 || len(f.SystemEvents) != 0 {
		t.Error("Reset did not clear recorded events")
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	if err := f.PublishTrigger(TriggerEvent{}); err == nil {
		t.Error("expected configured publish error")
	}
	if len(f.Triggers) != 0 {
		t.Error("failed publish must not be recorded")
	}
}
