package logic

// Controller owns all session state and is the single entry point for
// telemetry and periodic re-evaluation. All mutable state lives here; the
// host loop must call Ingest and PeriodicUpdate from one goroutine.
type Controller struct {
	cfg    Config
	panel  Panel
	temp   gaugeMonitor
	load   gaugeMonitor
	rx     reception
	pw     power
	counts Counts
}

// NewController creates a controller driving the given panel. Zero-valued
// timeouts in cfg are replaced with the firmware defaults.
func NewController(cfg Config, panel Panel) *Controller {
	if cfg.HideTimeout == 0 {
		cfg.HideTimeout = DefaultHideTimeout
	}
	if cfg.BlankTimeout == 0 {
		cfg.BlankTimeout = DefaultBlankTimeout
	}
	return &Controller{cfg: cfg, panel: panel}
}

// Ingest processes one telemetry sample. Reception tracking and display
// restore run before the gauge updates: a restore makes gauge changes
// visible, so reversing the order would race the user's first view of the
// returning frame.
func (c *Controller) Ingest(temp, load int, now Ticks) {
	c.counts.Samples++

	if c.rx.onData(now) {
		c.panel.FirstData()
	}

	if c.pw.restore() {
		c.panel.Restore()
		c.panel.PowerOn()
		c.counts.Restores++
	}

	c.applyGauge(GaugeTemp, &c.counts.Temp, c.temp.observe(temp, now, c.cfg.HideTimeout))
	c.applyGauge(GaugeLoad, &c.counts.Load, c.load.observe(load, now, c.cfg.HideTimeout))
}

// PeriodicUpdate re-evaluates all timeout conditions without new data. Must
// be called on a fixed cadence; the cadence bounds how late a hide or blank
// decision can fire after its timeout elapses.
func (c *Controller) PeriodicUpdate(now Ticks) {
	c.applyGauge(GaugeTemp, &c.counts.Temp, c.temp.check(now, c.cfg.HideTimeout))
	c.applyGauge(GaugeLoad, &c.counts.Load, c.load.check(now, c.cfg.HideTimeout))

	if c.pw.check(&c.rx, now, c.cfg.BlankTimeout) {
		c.panel.Blank()
		c.panel.PowerOff()
		c.counts.Blanks++
	}
}

func (c *Controller) applyGauge(g Gauge, gc *GaugeCounts, ch change) {
	switch ch {
	case changeHide:
		c.panel.HideGauge(g)
		gc.Hides++
	case changeShow:
		c.panel.ShowGauge(g)
		gc.Shows++
	}
}

// Status returns a read-only snapshot of the controller state. Pure: no
// capability is invoked and no state changes.
func (c *Controller) Status(now Ticks) Status {
	s := Status{
		Temp:     GaugeStatus{Value: c.temp.lastValue, Seen: c.temp.seen, Hidden: c.temp.hidden},
		Load:     GaugeStatus{Value: c.load.lastValue, Seen: c.load.seen, Hidden: c.load.hidden},
		Received: c.rx.received,
		Blanked:  c.pw.blanked,
		Counts:   c.counts,
	}
	if s.Received {
		s.SinceLast = c.rx.sinceLast(now)
	}
	return s
}
