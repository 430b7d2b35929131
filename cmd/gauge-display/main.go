// Command gauge-display turns host telemetry into panel commands: it hides
// idle gauges, blanks the display when the host goes quiet, and restores
// everything the moment data returns.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/gauge-display/internal/backlight"
	"github.com/sweeney/gauge-display/internal/config"
	"github.com/sweeney/gauge-display/internal/display"
	"github.com/sweeney/gauge-display/internal/logic"
	"github.com/sweeney/gauge-display/internal/status"
	"github.com/sweeney/gauge-display/internal/telemetry"
	"github.com/sweeney/gauge-display/internal/web"
)

func main() {
	def := config.Default()

	configPath := flag.String("config", "", "YAML config file (flags override file values)")
	source := flag.String("source", def.Telemetry.Source, `telemetry source: "mqtt" or "serial"`)
	broker := flag.String("broker", def.Telemetry.Broker, "telemetry MQTT broker address")
	topic := flag.String("telemetry-topic", def.Telemetry.Topic, "telemetry MQTT topic")
	serialDev := flag.String("serial", def.Telemetry.Device, "serial device for the serial source")
	panelBroker := flag.String("panel-broker", def.Panel.Broker, "panel MQTT broker address")
	tick := flag.Duration("tick", time.Duration(def.Timeouts.TickMs)*time.Millisecond, "re-evaluation interval")
	hideTimeout := flag.Duration("hide-timeout", time.Duration(def.Timeouts.HideMs)*time.Millisecond, "hide a gauge after this long at zero")
	blankTimeout := flag.Duration("blank-timeout", time.Duration(def.Timeouts.BlankMs)*time.Millisecond, "blank the display after this long without telemetry")
	heartbeat := flag.Duration("heartbeat", time.Duration(def.Timeouts.HeartbeatMs)*time.Millisecond, "heartbeat interval (0 to disable)")
	backlightPin := flag.Int("backlight-pin", def.Panel.BacklightPin, "BCM pin for the backlight enable line (negative to disable)")
	httpAddr := flag.String("http", def.HTTP.Addr, "HTTP status address (empty to disable)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// Explicitly-set flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Telemetry.Source = *source
		case "broker":
			cfg.Telemetry.Broker = *broker
		case "telemetry-topic":
			cfg.Telemetry.Topic = *topic
		case "serial":
			cfg.Telemetry.Device = *serialDev
		case "panel-broker":
			cfg.Panel.Broker = *panelBroker
		case "tick":
			cfg.Timeouts.TickMs = tick.Milliseconds()
		case "hide-timeout":
			cfg.Timeouts.HideMs = hideTimeout.Milliseconds()
		case "blank-timeout":
			cfg.Timeouts.BlankMs = blankTimeout.Milliseconds()
		case "heartbeat":
			cfg.Timeouts.HeartbeatMs = heartbeat.Milliseconds()
		case "backlight-pin":
			cfg.Panel.BacklightPin = *backlightPin
		case "http":
			cfg.HTTP.Addr = *httpAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config) error {
	// Initialize backlight
	var bl display.PowerSwitch
	if cfg.Panel.BacklightPin >= 0 {
		sw, err := backlight.NewRealSwitch(cfg.Panel.BacklightPin)
		if err != nil {
			return fmt.Errorf("init backlight: %w", err)
		}
		defer sw.Close()
		bl = sw
	}

	// Initialize panel driver
	panel, err := display.NewMQTTPanel(cfg.Panel.Broker, bl)
	if err != nil {
		return fmt.Errorf("init panel: %w", err)
	}
	defer panel.Close()

	// Initialize telemetry source
	var src telemetry.Source
	switch cfg.Telemetry.Source {
	case "mqtt":
		ms, err := telemetry.NewMQTTSource(cfg.Telemetry.Broker, cfg.Telemetry.Topic)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		src = ms
	case "serial":
		f, err := os.Open(cfg.Telemetry.Device)
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.Telemetry.Device, err)
		}
		src = telemetry.NewLineSource(f)
	default:
		return fmt.Errorf("unknown telemetry source %q", cfg.Telemetry.Source)
	}
	defer src.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:         cfg.Timeouts.TickMs,
		HideTimeoutMs:  cfg.Timeouts.HideMs,
		BlankTimeoutMs: cfg.Timeouts.BlankMs,
		HeartbeatMs:    cfg.Timeouts.HeartbeatMs,
		Broker:         cfg.Panel.Broker,
		TelemetryTopic: cfg.Telemetry.Topic,
		Source:         cfg.Telemetry.Source,
		SerialDevice:   cfg.Telemetry.Device,
		HTTPAddr:       cfg.HTTP.Addr,
	})
	tracker.SetMQTTConnected(panel.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := display.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := panel.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: source=%s tick=%dms hide=%dms blank=%dms broker=%s",
		cfg.Telemetry.Source, cfg.Timeouts.TickMs, cfg.Timeouts.HideMs, cfg.Timeouts.BlankMs, cfg.Panel.Broker)

	ticker := time.NewTicker(time.Duration(cfg.Timeouts.TickMs) * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logicCfg := logic.Config{
		HideTimeout:  logic.Ticks(cfg.Timeouts.HideMs),
		BlankTimeout: logic.Ticks(cfg.Timeouts.BlankMs),
	}
	heartbeat := time.Duration(cfg.Timeouts.HeartbeatMs) * time.Millisecond

	start := time.Now()
	now := func() logic.Ticks {
		// Truncation to 32 bits is deliberate; the controller's clock
		// arithmetic is wrap-safe.
		return logic.Ticks(time.Since(start).Milliseconds())
	}

	return runLoop(src, panel, panel, tracker, logicCfg, heartbeat, now, ticker.C, sigCh)
}

func runLoop(src telemetry.Source, panel display.Driver, mqttStatus display.ConnectionStatus, tracker *status.Tracker, cfg logic.Config, heartbeat time.Duration, now func() logic.Ticks, tick <-chan time.Time, sig <-chan os.Signal) error {
	ctrl := logic.NewController(cfg, panel)

	hbInterval := logic.Ticks(heartbeat.Milliseconds())
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := display.SystemEvent{
				Timestamp: time.Now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				tracker.Update(ctrl.Status(now()), src.Dropped())
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := panel.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case sample, ok := <-src.Samples():
			if !ok {
				// Serial stream ended or source shut down; nothing left
				// to drive the display with.
				return fmt.Errorf("telemetry source closed")
			}
			t := now()
			ctrl.Ingest(sample.CPUTemp, sample.CPULoad, t)
			st := ctrl.Status(t)

			// Needle and clock updates only reach the renderer while the
			// display is awake; hidden gauges keep their state silently.
			if !st.Blanked {
				if !st.Temp.Hidden {
					panel.UpdateGauge(logic.GaugeTemp, sample.CPUTemp)
				}
				if !st.Load.Hidden {
					panel.UpdateGauge(logic.GaugeLoad, sample.CPULoad)
				}
				if sample.Clock != "" {
					panel.UpdateClock(sample.Clock)
				}
			}

			if tracker != nil {
				tracker.Update(st, src.Dropped())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

		case <-tick:
			t := now()
			ctrl.PeriodicUpdate(t)
			st := ctrl.Status(t)

			if tracker != nil {
				tracker.Update(st, src.Dropped())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if hbInterval > 0 && t.Sub(lastHeartbeat) >= hbInterval {
				lastHeartbeat = t
				hbEvent := display.SystemEvent{
					Timestamp: time.Now(),
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
					log.Printf("heartbeat: samples=%d blanks=%d restores=%d",
						st.Counts.Samples, st.Counts.Blanks, st.Counts.Restores)
				}
				if err := panel.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}
