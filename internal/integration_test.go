package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/gauge-display/internal/display"
	"github.com/sweeney/gauge-display/internal/logic"
	"github.com/sweeney/gauge-display/internal/status"
	"github.com/sweeney/gauge-display/internal/telemetry"
)

// TestIntegrationFullFlow drives the controller with parsed telemetry records
// through a full day-in-the-life: boot, idle gauge hidden, host going quiet,
// display blanked, and everything restored when data returns.
func TestIntegrationFullFlow(t *testing.T) {
	panel := display.NewFakePanel()
	ctrl := logic.NewController(logic.Config{HideTimeout: 60000, BlankTimeout: 120000}, panel)

	records := []struct {
		at   logic.Ticks
		json string
	}{
		{1000, `{"time":"12:00:01","cpu_load":42,"cpu_temp":55}`},
		{2000, `{"time":"12:00:02","cpu_load":0,"cpu_temp":56}`},
		{3000, `{"time":"12:00:03","cpu_load":0,"cpu_temp":56}`},
	}
	for i, r := range records {
		sample, err := telemetry.ParseSample([]byte(r.json))
		if err != nil {
			t.Fatalf("record %d: parse error: %v", i, err)
		}
		ctrl.Ingest(sample.CPUTemp, sample.CPULoad, r.at)
	}

	// Load has been zero since t=2000; at t=62000 the hide timeout expires.
	ctrl.PeriodicUpdate(61999)
	if panel.CountAction(display.ActionHide) != 0 {
		t.Fatal("hide fired one tick early")
	}
	ctrl.PeriodicUpdate(62000)
	if panel.CountAction(display.ActionHide) != 1 {
		t.Fatal("expected load gauge hidden at t=62000")
	}

	// No telemetry since t=3000; at t=123000 the blank timeout expires.
	ctrl.PeriodicUpdate(123000)
	if panel.CountAction(display.ActionBlank) != 1 {
		t.Fatal("expected display blanked at t=123000")
	}
	if panel.CountAction(display.ActionPowerOff) != 1 {
		t.Fatal("expected backlight powered off with the blank")
	}

	// Data returns: restore the frame, but the idle gauge stays hidden.
	sample, _ := telemetry.ParseSample([]byte(`{"time":"12:10:00","cpu_load":0,"cpu_temp":58}`))
	ctrl.Ingest(sample.CPUTemp, sample.CPULoad, 130000)

	if panel.CountAction(display.ActionRestore) != 1 {
		t.Error("expected display restored on new data")
	}
	if panel.CountAction(display.ActionPowerOn) != 1 {
		t.Error("expected backlight powered on with the restore")
	}
	if panel.CountAction(display.ActionShow) != 0 {
		t.Error("zero-valued gauge must stay hidden across a restore")
	}

	st := ctrl.Status(130000)
	if st.Blanked {
		t.Error("status should report display active after restore")
	}
	if !st.Load.Hidden {
		t.Error("status should report load gauge still hidden")
	}
	if st.Counts.Samples != 4 {
		t.Errorf("samples: got %d, want 4", st.Counts.Samples)
	}
	if st.Counts.Blanks != 1 || st.Counts.Restores != 1 {
		t.Errorf("blank/restore counts: got %d/%d, want 1/1", st.Counts.Blanks, st.Counts.Restores)
	}
}

func TestIntegrationBootScreenDismissedOnce(t *testing.T) {
	panel := display.NewFakePanel()
	ctrl := logic.NewController(logic.Config{}, panel)

	for i := 0; i < 5; i++ {
		ctrl.Ingest(50, 10, logic.Ticks(i*1000))
	}
	if panel.CountAction(display.ActionBootDone) != 1 {
		t.Errorf("boot_done count: got %d, want 1", panel.CountAction(display.ActionBootDone))
	}
}

func TestIntegrationMalformedTelemetryIgnored(t *testing.T) {
	panel := display.NewFakePanel()
	ctrl := logic.NewController(logic.Config{}, panel)

	if _, err := telemetry.ParseSample([]byte(`{"cpu_temp":`)); err == nil {
		t.Fatal("expected parse error")
	}
	// The malformed record never reaches the controller, so no capability
	// fires and the boot screen stays up.
	if len(panel.Calls) != 0 {
		t.Errorf("expected no panel calls, got %v", panel.Actions())
	}
	if ctrl.Status(1000).Received {
		t.Error("controller should not have received anything")
	}
}

func TestIntegrationStatusEventPayload(t *testing.T) {
	panel := display.NewFakePanel()
	ctrl := logic.NewController(logic.Config{HideTimeout: 60000, BlankTimeout: 60000}, panel)
	tracker := status.NewTracker(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), status.Config{
		TickMs:         5,
		HideTimeoutMs:  60000,
		BlankTimeoutMs: 60000,
		Broker:         "tcp://192.168.1.200:1883",
		Source:         "mqtt",
	})

	ctrl.Ingest(55, 0, 1000)
	tracker.Update(ctrl.Status(2500), 0)
	tracker.SetMQTTConnected(true)

	event := display.SystemEvent{
		Timestamp:  time.Now(),
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", ""),
	}
	if err := panel.PublishSystem(event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal(panel.SystemPayloads[0], &sj); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if sj.Status.Event != "HEARTBEAT" {
		t.Errorf("event: got %q, want HEARTBEAT", sj.Status.Event)
	}
	if sj.Status.Gauges.CPUTemp.Value == nil || *sj.Status.Gauges.CPUTemp.Value != 55 {
		t.Errorf("cpu_temp: got %v, want 55", sj.Status.Gauges.CPUTemp.Value)
	}
	if sj.Status.SinceLastMs == nil || *sj.Status.SinceLastMs != 1500 {
		t.Errorf("since_last_ms: got %v, want 1500", sj.Status.SinceLastMs)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected mqtt.connected=true")
	}
}

func TestIntegrationShutdownPayloadFormat(t *testing.T) {
	panel := display.NewFakePanel()
	tracker := status.NewTracker(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), status.Config{TickMs: 5})

	event := display.SystemEvent{
		Timestamp:  time.Now(),
		Event:      "SHUTDOWN",
		Reason:     "SIGTERM",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", "SIGTERM"),
	}
	if err := panel.PublishSystem(event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !panel.SystemEvents[0].Retained {
		t.Error("shutdown event should be retained")
	}

	var sj status.StatusJSON
	if err := json.Unmarshal(panel.SystemPayloads[0], &sj); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" || sj.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason: got %q/%q", sj.Status.Event, sj.Status.Reason)
	}
	if sj.Status.SinceLastMs != nil {
		t.Error("since_last_ms should be null when no sample ever arrived")
	}
}

// TestIntegrationClockWrapLongRun exercises a session that crosses the 32-bit
// millisecond boundary (~49.7 days) with live telemetry throughout.
func TestIntegrationClockWrapLongRun(t *testing.T) {
	panel := display.NewFakePanel()
	ctrl := logic.NewController(logic.Config{HideTimeout: 60000, BlankTimeout: 60000}, panel)

	preWrap := ^logic.Ticks(0) - 30000
	ctrl.Ingest(50, 10, preWrap)
	ctrl.PeriodicUpdate(preWrap + 40000) // wraps through zero
	if panel.CountAction(display.ActionBlank) != 0 {
		t.Fatal("blank fired during wrap with fresh data")
	}

	// 60s after the last sample, measured across the wrap boundary.
	ctrl.PeriodicUpdate(preWrap + 60000)
	if panel.CountAction(display.ActionBlank) != 1 {
		t.Error("expected blank exactly one timeout after the last sample")
	}
}
