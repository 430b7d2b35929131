package logic

// change is what a state-machine step decided; the Controller turns it into
// a capability invocation so ordering and counting stay in one place.
type change int

const (
	changeNone change = iota
	changeHide
	changeShow
)

// gaugeMonitor tracks the zero-timeout visibility state for one gauge.
type gaugeMonitor struct {
	lastValue int
	seen      bool
	zeroSince Ticks
	zeroTimer bool // zeroSince is valid
	hidden    bool
}

// observe processes a new value. The zero timer starts exactly at the
// transition to zero; any non-zero value clears both the timer and the
// hidden flag immediately, without waiting for a timeout.
func (m *gaugeMonitor) observe(value int, now Ticks, hideTimeout Ticks) change {
	ch := changeNone
	if value == 0 {
		if !m.seen || m.lastValue != 0 {
			m.zeroSince = now
			m.zeroTimer = true
		}
		ch = m.hideIfExpired(now, hideTimeout)
	} else {
		if m.hidden {
			m.hidden = false
			ch = changeShow
		}
		m.zeroTimer = false
	}
	m.lastValue = value
	m.seen = true
	return ch
}

// check re-evaluates the hide condition without new data. A gauge that has
// never seen a value can never be hidden.
func (m *gaugeMonitor) check(now Ticks, hideTimeout Ticks) change {
	if !m.seen || m.lastValue != 0 || !m.zeroTimer {
		return changeNone
	}
	return m.hideIfExpired(now, hideTimeout)
}

// hideIfExpired is the single hide predicate shared by the ingest and
// periodic paths.
func (m *gaugeMonitor) hideIfExpired(now Ticks, hideTimeout Ticks) change {
	if m.hidden || now.Sub(m.zeroSince) < hideTimeout {
		return changeNone
	}
	m.hidden = true
	return changeHide
}

// reception tracks whether any telemetry has ever arrived and when the most
// recent sample arrived.
type reception struct {
	received bool
	lastAt   Ticks // meaningful only when received
}

// onData records an arrival. Returns true exactly once, on the first arrival.
func (r *reception) onData(now Ticks) bool {
	r.lastAt = now
	if r.received {
		return false
	}
	r.received = true
	return true
}

func (r *reception) sinceLast(now Ticks) Ticks {
	return now.Sub(r.lastAt)
}

// power tracks whether the whole panel is blanked.
type power struct {
	blanked bool
}

// restore reports whether the panel needs restoring; no-op when not blanked.
func (p *power) restore() bool {
	if !p.blanked {
		return false
	}
	p.blanked = false
	return true
}

// check reports whether the panel should blank now. The panel never blanks
// before the first sample has arrived, however long the process has been up.
func (p *power) check(r *reception, now Ticks, blankTimeout Ticks) bool {
	if !r.received || p.blanked || r.sinceLast(now) < blankTimeout {
		return false
	}
	p.blanked = true
	return true
}
