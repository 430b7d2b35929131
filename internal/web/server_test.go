package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/gauge-display/internal/logic"
	"github.com/sweeney/gauge-display/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		TickMs:         5,
		HideTimeoutMs:  60000,
		BlankTimeoutMs: 60000,
		HeartbeatMs:    900000,
		Broker:         "tcp://192.168.1.200:1883",
		TelemetryTopic: "monitor/host/telemetry",
		Source:         "mqtt",
		HTTPAddr:       ":80",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)

	st := logic.Status{
		Temp:     logic.GaugeStatus{Value: 58, Seen: true},
		Load:     logic.GaugeStatus{Value: 0, Seen: true, Hidden: true},
		Received: true,
	}
	st.SinceLast = 4200
	st.Counts.Load.Hides = 1
	st.Counts.Samples = 9
	tr.Update(st, 0)
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Gauges.CPUTemp.Value == nil || *sj.Status.Gauges.CPUTemp.Value != 58 {
		t.Errorf("cpu_temp value: got %v, want 58", sj.Status.Gauges.CPUTemp.Value)
	}
	if !sj.Status.Gauges.CPULoad.Hidden {
		t.Error("expected cpu_load hidden")
	}
	if sj.Status.SinceLastMs == nil || *sj.Status.SinceLastMs != 4200 {
		t.Errorf("since_last_ms: got %v, want 4200", sj.Status.SinceLastMs)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected mqtt.connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("mqtt.broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.Counts.LoadHides != 1 {
		t.Errorf("counts.load_hides: got %d, want 1", sj.Status.Counts.LoadHides)
	}
	if sj.Status.Config.TickMs != 5 {
		t.Errorf("config.tick_ms: got %d, want 5", sj.Status.Config.TickMs)
	}
}

func TestJSONNullSentinelsBeforeFirstSample(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Received {
		t.Error("received should be false before first sample")
	}
	if sj.Status.SinceLastMs != nil {
		t.Errorf("since_last_ms should be null before first sample, got %d", *sj.Status.SinceLastMs)
	}
	if sj.Status.Gauges.CPUTemp.Value != nil {
		t.Error("cpu_temp value should be null before first sample")
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)

	st := logic.Status{
		Temp:     logic.GaugeStatus{Value: 61, Seen: true},
		Load:     logic.GaugeStatus{Value: 12, Seen: true},
		Received: true,
	}
	tr.Update(st, 0)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "61") {
		t.Error("expected temperature value in page")
	}
	if !strings.Contains(string(body), "Gauge Display") {
		t.Error("expected page title")
	}
}

func TestHTMLShowsNeverBeforeFirstSample(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "never") {
		t.Error("expected last-telemetry to read never before first sample")
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	resp1, _ := http.Get(ts.URL + "/index.json")
	var sj1 status.StatusJSON
	json.NewDecoder(resp1.Body).Decode(&sj1)
	resp1.Body.Close()
	if sj1.Status.Blanked {
		t.Error("expected blanked=false initially")
	}

	tr.Update(logic.Status{Received: true, Blanked: true}, 3)

	resp2, _ := http.Get(ts.URL + "/index.json")
	var sj2 status.StatusJSON
	json.NewDecoder(resp2.Body).Decode(&sj2)
	resp2.Body.Close()

	if !sj2.Status.Blanked {
		t.Error("expected blanked=true after update")
	}
	if sj2.Status.DroppedSamples != 3 {
		t.Errorf("dropped_samples: got %d, want 3", sj2.Status.DroppedSamples)
	}
}
