// Package logic contains the pure state controller for the gauge panel.
// This package has NO external dependencies (no MQTT, GPIO, OS, or time.Sleep).
// Time is always injectable via Ticks parameters.
package logic

// Ticks is a millisecond counter that wraps at the width of uint32, matching
// the panel clock. The zero value is a valid reading, not a sentinel.
type Ticks uint32

// Sub returns the elapsed milliseconds from earlier to t. The subtraction is
// unsigned modular arithmetic, so a clock wrap between the two readings still
// yields the correct small difference.
func (t Ticks) Sub(earlier Ticks) Ticks {
	return t - earlier
}

// Gauge identifies one monitored telemetry channel.
type Gauge int

const (
	GaugeTemp Gauge = iota // CPU temperature, 0-100
	GaugeLoad              // CPU load percentage, 0-100
)

func (g Gauge) String() string {
	switch g {
	case GaugeTemp:
		return "cpu_temp"
	case GaugeLoad:
		return "cpu_load"
	}
	return "unknown"
}

// Panel is the capability surface the controller drives. Implementations are
// fire-and-forget: the controller never consumes a result, and a failed
// invocation must not change controller state. The controller guarantees it
// never invokes the same capability twice without an intervening state change.
type Panel interface {
	// HideGauge removes one gauge from the panel.
	HideGauge(g Gauge)

	// ShowGauge restores one previously hidden gauge.
	ShowGauge(g Gauge)

	// Blank hides the entire panel, including gauges that are individually
	// visible.
	Blank()

	// Restore re-shows the panel frame. It must not override individual
	// gauge visibility; hidden gauges stay hidden.
	Restore()

	// PowerOn and PowerOff drive the backlight/power hardware. Invoked
	// alongside Restore and Blank respectively.
	PowerOn()
	PowerOff()

	// FirstData signals the one-time transition out of the boot screen.
	// Invoked exactly once per controller lifetime.
	FirstData()
}

// Config holds the controller timeouts, both in milliseconds.
type Config struct {
	// HideTimeout is how long a gauge value must stay exactly zero before
	// the gauge is hidden.
	HideTimeout Ticks

	// BlankTimeout is how long the panel may go without any telemetry
	// before it is blanked and powered off.
	BlankTimeout Ticks
}

// DefaultHideTimeout and DefaultBlankTimeout match the panel firmware.
const (
	DefaultHideTimeout  Ticks = 60000
	DefaultBlankTimeout Ticks = 60000
)

// GaugeCounts tracks visibility transitions for one gauge since startup.
type GaugeCounts struct {
	Hides int
	Shows int
}

// Counts tracks capability invocations since startup.
type Counts struct {
	Temp     GaugeCounts
	Load     GaugeCounts
	Blanks   int
	Restores int
	Samples  int
}

// GaugeStatus is a read-only view of one gauge's state.
type GaugeStatus struct {
	Value  int  // last observed value; meaningful only when Seen
	Seen   bool // false until the first sample for this gauge arrives
	Hidden bool
}

// Status is a read-only snapshot of the controller. Taking one has no side
// effects.
type Status struct {
	Temp GaugeStatus
	Load GaugeStatus

	// Received is true once any telemetry has arrived.
	Received bool

	// SinceLast is the elapsed milliseconds since the last sample.
	// Meaningful only when Received is true.
	SinceLast Ticks

	Blanked bool
	Counts  Counts
}
