package display

import (
	"github.com/sweeney/gauge-display/internal/logic"
)

// Call records one capability or forwarding invocation on the FakePanel.
type Call struct {
	Action string
	Gauge  logic.Gauge
	Value  int
	Clock  string
}

// FakePanel records panel invocations for test assertions.
type FakePanel struct {
	// Calls contains every command invocation in order.
	Calls []Call

	// SystemEvents contains all lifecycle events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePanel creates a FakePanel for testing.
func NewFakePanel() *FakePanel {
	return &FakePanel{}
}

// HideGauge records a hide.
func (f *FakePanel) HideGauge(g logic.Gauge) {
	f.Calls = append(f.Calls, Call{Action: ActionHide, Gauge: g})
}

// ShowGauge records a show.
func (f *FakePanel) ShowGauge(g logic.Gauge) {
	f.Calls = append(f.Calls, Call{Action: ActionShow, Gauge: g})
}

// Blank records a whole-panel blank.
func (f *FakePanel) Blank() {
	f.Calls = append(f.Calls, Call{Action: ActionBlank})
}

// Restore records a whole-panel restore.
func (f *FakePanel) Restore() {
	f.Calls = append(f.Calls, Call{Action: ActionRestore})
}

// PowerOn records a backlight power-on.
func (f *FakePanel) PowerOn() {
	f.Calls = append(f.Calls, Call{Action: ActionPowerOn})
}

// PowerOff records a backlight power-off.
func (f *FakePanel) PowerOff() {
	f.Calls = append(f.Calls, Call{Action: ActionPowerOff})
}

// FirstData records the boot-done transition.
func (f *FakePanel) FirstData() {
	f.Calls = append(f.Calls, Call{Action: ActionBootDone})
}

// UpdateGauge records a needle value update.
func (f *FakePanel) UpdateGauge(g logic.Gauge, value int) {
	f.Calls = append(f.Calls, Call{Action: ActionGauge, Gauge: g, Value: value})
}

// UpdateClock records a wall-clock label update.
func (f *FakePanel) UpdateClock(clock string) {
	f.Calls = append(f.Calls, Call{Action: ActionClock, Clock: clock})
}

// PublishSystem records the lifecycle event.
func (f *FakePanel) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// IsConnected reports whether the fake panel is "connected".
func (f *FakePanel) IsConnected() bool {
	return f.Connected
}

// Close marks the panel as closed.
func (f *FakePanel) Close() error {
	f.Closed = true
	return nil
}

// Actions returns just the action names of all recorded calls, in order.
func (f *FakePanel) Actions() []string {
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Action
	}
	return out
}

// CountAction returns how many recorded calls used the given action.
func (f *FakePanel) CountAction(action string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Action == action {
			n++
		}
	}
	return n
}

// Reset clears recorded calls and events.
func (f *FakePanel) Reset() {
	f.Calls = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.PublishSystemError = nil
	f.Closed = false
	f.Connected = false
}

var _ Driver = (*FakePanel)(nil)
