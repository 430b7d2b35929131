package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/gauge-display/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string     `json:"event,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Gauges         GaugesJSON `json:"gauges"`
	Received       bool       `json:"received"`
	SinceLastMs    *int64     `json:"since_last_ms"` // null until the first sample arrives
	Blanked        bool       `json:"blanked"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	StartTime      string     `json:"start_time"`
	Timestamp      string     `json:"timestamp"`
	MQTT           MQTTStatus `json:"mqtt"`
	Counts         CountsJSON `json:"counts"`
	DroppedSamples uint64     `json:"dropped_samples"`
	Config         ConfigJSON `json:"config"`
}

// GaugeJSON is the JSON representation of one gauge's state.
type GaugeJSON struct {
	Value  *int `json:"value"` // null until the gauge has seen a value
	Hidden bool `json:"hidden"`
}

// GaugesJSON holds both gauges keyed by their channel names.
type GaugesJSON struct {
	CPUTemp GaugeJSON `json:"cpu_temp"`
	CPULoad GaugeJSON `json:"cpu_load"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of capability invocation counts.
type CountsJSON struct {
	TempHides int `json:"temp_hides"`
	TempShows int `json:"temp_shows"`
	LoadHides int `json:"load_hides"`
	LoadShows int `json:"load_shows"`
	Blanks    int `json:"blanks"`
	Restores  int `json:"restores"`
	Samples   int `json:"samples"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs         int64  `json:"tick_ms"`
	HideTimeoutMs  int64  `json:"hide_timeout_ms"`
	BlankTimeoutMs int64  `json:"blank_timeout_ms"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	Broker         string `json:"broker"`
	TelemetryTopic string `json:"telemetry_topic"`
	Source         string `json:"source"`
	SerialDevice   string `json:"serial_device,omitempty"`
	HTTPAddr       string `json:"http_addr"`
}

func buildGauge(g logic.GaugeStatus) GaugeJSON {
	out := GaugeJSON{Hidden: g.Hidden}
	if g.Seen {
		v := g.Value
		out.Value = &v
	}
	return out
}

func buildInner(snap Snapshot) StatusInner {
	st := snap.Controller

	inner := StatusInner{
		Gauges: GaugesJSON{
			CPUTemp: buildGauge(st.Temp),
			CPULoad: buildGauge(st.Load),
		},
		Received:      st.Received,
		Blanked:       st.Blanked,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			TempHides: st.Counts.Temp.Hides,
			TempShows: st.Counts.Temp.Shows,
			LoadHides: st.Counts.Load.Hides,
			LoadShows: st.Counts.Load.Shows,
			Blanks:    st.Counts.Blanks,
			Restores:  st.Counts.Restores,
			Samples:   st.Counts.Samples,
		},
		DroppedSamples: snap.DroppedSamples,
		Config: ConfigJSON{
			TickMs:         snap.Config.TickMs,
			HideTimeoutMs:  snap.Config.HideTimeoutMs,
			BlankTimeoutMs: snap.Config.BlankTimeoutMs,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			Broker:         snap.Config.Broker,
			TelemetryTopic: snap.Config.TelemetryTopic,
			Source:         snap.Config.Source,
			SerialDevice:   snap.Config.SerialDevice,
			HTTPAddr:       snap.Config.HTTPAddr,
		},
	}

	// since_last_ms stays null until the first sample ever arrives; zero
	// would read as "just now".
	if st.Received {
		ms := int64(st.SinceLast)
		inner.SinceLastMs = &ms
	}

	return inner
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
