package status

import (
	"encoding/json"
	"time"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Temperature   *float64     `json:"env_t,omitempty"`
	Humidity      *float64     `json:"env_h,omitempty"`
	Powered       int          `json:"pwr"`
	Channels      ChannelsJSON `json:"channels"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	JournalCount  int64        `json:"journal_count"`
	Triggers      TriggersJSON `json:"triggers"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ChannelJSON is the JSON representation of one monitor.
type ChannelJSON struct {
	State   string `json:"state"`
	Events  uint64 `json:"events"`
	Latched bool   `json:"latched"`
}

// ChannelsJSON is the JSON representation of all four monitors.
type ChannelsJSON struct {
	TempHigh ChannelJSON `json:"temp_high"`
	TempLow  ChannelJSON `json:"temp_low"`
	HumHigh  ChannelJSON `json:"hum_high"`
	HumLow   ChannelJSON `json:"hum_low"`
}

// TriggersJSON is the JSON representation of the trigger configuration,
// using the env_trig parameter names.
type TriggersJSON struct {
	TempHigh       float64 `json:"envhigh"`
	TempHighEnable bool    `json:"envhigh_en"`
	TempHighLatch  bool    `json:"envhigh_latch"`
	TempLow        float64 `json:"envlow"`
	TempLowEnable  bool    `json:"envlow_en"`
	TempLowLatch   bool    `json:"envlow_latch"`
	TempHysteresis float64 `json:"envhyst"`
	HumHigh        float64 `json:"humhigh"`
	HumHighEnable  bool    `json:"humhigh_en"`
	HumHighLatch   bool    `json:"humhigh_latch"`
	HumLow         float64 `json:"humlow"`
	HumLowEnable   bool    `json:"humlow_en"`
	HumLowLatch    bool    `json:"humlow_latch"`
	HumHysteresis  float64 `json:"humhyst"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs   int64  `json:"poll_ms"`
	LocateMs int64  `json:"locate_ms"`
	Broker   string `json:"broker"`
	HTTPAddr string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Powered:       boolToInt(snap.Powered),
		Channels:      buildChannels(snap.Channels),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		JournalCount:  snap.JournalCount,
		Triggers:      buildTriggers(snap.Triggers),
		Config: ConfigJSON{
			PollMs:   snap.Config.PollMs,
			LocateMs: snap.Config.LocateMs,
			Broker:   snap.Config.Broker,
			HTTPAddr: snap.Config.HTTPAddr,
		},
	}

	// env_t/env_h are omitted until the first successful sensor read.
	if snap.HaveReading {
		temp := snap.Reading.Temperature
		hum := snap.Reading.Humidity
		inner.Temperature = &temp
		inner.Humidity = &hum
	}

	return inner
}

func buildChannels(ch env.Channels) ChannelsJSON {
	return ChannelsJSON{
		TempHigh: buildChannel(ch.TempHigh),
		TempLow:  buildChannel(ch.TempLow),
		HumHigh:  buildChannel(ch.HumHigh),
		HumLow:   buildChannel(ch.HumLow),
	}
}

func buildChannel(c env.ChannelStatus) ChannelJSON {
	return ChannelJSON{
		State:   c.State.String(),
		Events:  c.Events,
		Latched: c.Latched,
	}
}

func buildTriggers(cfg env.TriggerConfig) TriggersJSON {
	return TriggersJSON{
		TempHigh:       cfg.TempHigh,
		TempHighEnable: cfg.TempHighEnable,
		TempHighLatch:  cfg.TempHighLatch,
		TempLow:        cfg.TempLow,
		TempLowEnable:  cfg.TempLowEnable,
		TempLowLatch:   cfg.TempLowLatch,
		TempHysteresis: cfg.TempHysteresis,
		HumHigh:        cfg.HumHigh,
		HumHighEnable:  cfg.HumHighEnable,
		HumHighLatch:   cfg.HumHighLatch,
		HumLow:         cfg.HumLow,
		HumLowEnable:   cfg.HumLowEnable,
		HumLowLatch:    cfg.HumLowLatch,
		HumHysteresis:  cfg.HumHysteresis,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
