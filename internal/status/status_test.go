package status

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
)

func testConfig() Config {
	return Config{
		PollMs:   1000,
		LocateMs: 900000,
		Broker:   "tcp://192.168.1.200:1883",
		HTTPAddr: ":8080",
	}
}

func TestTrackerDefaults(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if !snap.Powered {
		t.Error("tracker must assume external power at boot")
	}
	if snap.HaveReading {
		t.Error("tracker must not report a reading before the first update")
	}
	if !snap.StartTime.Equal(start) {
		t.Errorf("start time: got %v", snap.StartTime)
	}
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	reading := env.Environment{Temperature: 46.5, Humidity: 52}
	channels := env.Channels{
		TempHigh: env.ChannelStatus{State: env.StateOutsideLimit, Events: 1, Latched: true},
	}
	tr.Update(reading, channels)
	tr.SetPowered(false)
	tr.SetMQTTConnected(true)
	tr.SetJournalCount(7)

	snap := tr.Snapshot()
	if !snap.HaveReading || snap.Reading.Temperature != 46.5 {
		t.Errorf("reading: %+v", snap.Reading)
	}
	if snap.Channels.TempHigh.State != env.StateOutsideLimit {
		t.Errorf("channels: %+v", snap.Channels.TempHigh)
	}
	if snap.Powered {
		t.Error("powered flag not updated")
	}
	if !snap.MQTTConnected {
		t.Error("mqtt flag not updated")
	}
	if snap.JournalCount != 7 {
		t.Errorf("journal count: got %d", snap.JournalCount)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	snap := tr.Snapshot()

	tr.Update(env.Environment{Temperature: 99}, env.Channels{})

	if snap.HaveReading {
		t.Error("earlier snapshot must not observe later updates")
	}
}

func TestUptime(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if snap.Uptime() != 90*time.Second {
		t.Errorf("uptime: got %v", snap.Uptime())
	}
}

func TestFormatJSONOmitsReadingUntilFirstUpdate(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	data := FormatJSON(tr.Snapshot())

	if strings.Contains(string(data), "env_t") {
		t.Error("env_t must be omitted before the first reading")
	}

	var out StatusJSON
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Status.Channels.TempHigh.State != "UNKNOWN" {
		t.Errorf("initial channel state: got %q", out.Status.Channels.TempHigh.State)
	}
	if out.Status.Powered != 1 {
		t.Errorf("pwr: got %d, want 1", out.Status.Powered)
	}
}

func TestFormatJSONFull(t *testing.T) {
	tr := NewTracker(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), testConfig())
	tr.Update(env.Environment{Temperature: 46.5, Humidity: 52}, env.Channels{
		TempHigh: env.ChannelStatus{State: env.StateOutsideLimit, Events: 3, Latched: true},
	})
	cfg := env.DefaultTriggerConfig()
	cfg.TempHighEnable = true
	tr.SetTriggers(cfg)

	var out StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.Status.Temperature == nil || *out.Status.Temperature != 46.5 {
		t.Errorf("env_t: got %v", out.Status.Temperature)
	}
	if out.Status.Channels.TempHigh.State != "OUTSIDE_LIMIT" {
		t.Errorf("temp_high state: got %q", out.Status.Channels.TempHigh.State)
	}
	if out.Status.Channels.TempHigh.Events != 3 {
		t.Errorf("temp_high events: got %d", out.Status.Channels.TempHigh.Events)
	}
	if !out.Status.Triggers.TempHighEnable {
		t.Error("triggers: envhigh_en not carried")
	}
	if out.Status.Triggers.TempHigh != 45 {
		t.Errorf("triggers: envhigh got %v", out.Status.Triggers.TempHigh)
	}
	if out.Status.Config.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("config broker: got %q", out.Status.Config.Broker)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var out StatusJSON
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", out.Status.Event)
	}
	if out.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", out.Status.Reason)
	}
}
