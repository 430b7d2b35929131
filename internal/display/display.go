// Package display drives the panel renderer with abstraction for testing.
// The real implementation publishes panel commands over MQTT and drives the
// backlight power rail; the fake records everything for assertions.
package display

import (
	"encoding/json"
	"time"

	"github.com/sweeney/gauge-display/internal/logic"
)

// TopicCommands is the MQTT topic the panel renderer subscribes to.
const TopicCommands = "display/gauge/commands"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "display/gauge/system"

// Command actions carried on the command topic.
const (
	ActionHide     = "hide"
	ActionShow     = "show"
	ActionBlank    = "blank"
	ActionRestore  = "restore"
	ActionPowerOn  = "power_on"
	ActionPowerOff = "power_off"
	ActionBootDone = "boot_done"
	ActionGauge    = "gauge"
	ActionClock    = "clock"
)

// PowerSwitch is the slice of the backlight driver the panel needs.
type PowerSwitch interface {
	On() error
	Off() error
}

// Driver is the full outward surface of the panel: the controller's
// capability set plus value forwarding and lifecycle events.
type Driver interface {
	logic.Panel

	// UpdateGauge forwards a needle value to the renderer.
	UpdateGauge(g logic.Gauge, value int)

	// UpdateClock forwards the sample's wall-clock label to the renderer.
	UpdateClock(clock string)

	// PublishSystem sends a lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Command is one panel instruction before serialization.
type Command struct {
	Time   time.Time
	Action string
	Gauge  string // empty for whole-panel actions
	Value  *int   // needle value, gauge updates only
	Clock  string // wall-clock label, clock updates only
}

// Payload is the MQTT message payload structure for commands.
type Payload struct {
	Panel CommandPayload `json:"panel"`
}

// CommandPayload contains the command details.
type CommandPayload struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Gauge     string `json:"gauge,omitempty"`
	Value     *int   `json:"value,omitempty"`
	Clock     string `json:"clock,omitempty"`
}

// FormatCommand creates the JSON payload for a panel command.
func FormatCommand(cmd Command) ([]byte, error) {
	return json.Marshal(Payload{
		Panel: CommandPayload{
			Timestamp: cmd.Time.UTC().Format(time.RFC3339),
			Action:    cmd.Action,
			Gauge:     cmd.Gauge,
			Value:     cmd.Value,
			Clock:     cmd.Clock,
		},
	})
}

// SystemEvent represents a daemon lifecycle event (e.g., startup, shutdown,
// heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SystemPayload represents the MQTT message payload for system events.
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
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
