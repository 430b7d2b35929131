// Package config loads the gauge-display daemon configuration from a YAML
// file. Every field has a default so the daemon runs without a file at all;
// command-line flags override whatever the file sets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the complete daemon configuration.
type Config struct {
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Timeouts  TimeoutsConfig  `yaml:"timeouts"`
	Panel     PanelConfig     `yaml:"panel"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// TelemetryConfig selects and configures the telemetry source.
type TelemetryConfig struct {
	Source string `yaml:"source"` // "mqtt" or "serial"
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
	Device string `yaml:"device"` // serial source only
}

// TimeoutsConfig holds the state-machine timing knobs, in milliseconds.
type TimeoutsConfig struct {
	TickMs      int64 `yaml:"tickMs"`
	HideMs      int64 `yaml:"hideMs"`
	BlankMs     int64 `yaml:"blankMs"`
	HeartbeatMs int64 `yaml:"heartbeatMs"` // 0 disables heartbeat events
}

// PanelConfig configures the display panel driver.
type PanelConfig struct {
	Broker       string `yaml:"broker"`
	BacklightPin int    `yaml:"backlightPin"` // negative disables the backlight switch
}

// HTTPConfig configures the status web server.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the server
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Telemetry: TelemetryConfig{
			Source: "mqtt",
			Broker: "tcp://localhost:1883",
			Topic:  "monitor/host/telemetry",
			Device: "/dev/ttyUSB0",
		},
		Timeouts: TimeoutsConfig{
			TickMs:      5,
			HideMs:      60000,
			BlankMs:     60000,
			HeartbeatMs: 900000,
		},
		Panel: PanelConfig{
			Broker:       "tcp://localhost:1883",
			BacklightPin: 18,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	switch c.Telemetry.Source {
	case "mqtt", "serial":
	default:
		return fmt.Errorf("telemetry.source must be mqtt or serial, got %q", c.Telemetry.Source)
	}
	if c.Telemetry.Source == "mqtt" && c.Telemetry.Broker == "" {
		return fmt.Errorf("telemetry.broker must be set for the mqtt source")
	}
	if c.Telemetry.Source == "serial" && c.Telemetry.Device == "" {
		return fmt.Errorf("telemetry.device must be set for the serial source")
	}
	if c.Timeouts.TickMs <= 0 {
		return fmt.Errorf("timeouts.tickMs must be positive, got %d", c.Timeouts.TickMs)
	}
	if c.Timeouts.HideMs <= 0 {
		return fmt.Errorf("timeouts.hideMs must be positive, got %d", c.Timeouts.HideMs)
	}
	if c.Timeouts.BlankMs <= 0 {
		return fmt.Errorf("timeouts.blankMs must be positive, got %d", c.Timeouts.BlankMs)
	}
	if c.Timeouts.HeartbeatMs < 0 {
		return fmt.Errorf("timeouts.heartbeatMs must not be negative, got %d", c.Timeouts.HeartbeatMs)
	}
	if c.Panel.Broker == "" {
		return fmt.Errorf("panel.broker must be set")
	}
	return nil
}
