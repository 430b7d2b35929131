// Package status provides a thread-safe status tracker for the gauge-display
// daemon. It is read by HTTP handlers and serialized into MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/gauge-display/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs         int64
	HideTimeoutMs  int64
	BlankTimeoutMs int64
	HeartbeatMs    int64
	Broker         string
	TelemetryTopic string
	Source         string // "mqtt" or "serial"
	SerialDevice   string // serial source only
	HTTPAddr       string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Controller     logic.Status
	DroppedSamples uint64
	StartTime      time.Time
	Now            time.Time
	MQTTConnected  bool
	Config         Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the controller status and dropped-sample count.
// Called from runLoop on every tick and every sample.
func (t *Tracker) Update(st logic.Status, dropped uint64) {
	t.mu.Lock()
	t.snap.Controller = st
	t.snap.DroppedSamples = dropped
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
