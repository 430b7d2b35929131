package backlight

// FakeSwitch is a test double that records backlight transitions.
type FakeSwitch struct {
	// Lit is the current state; new switches start lit like the hardware.
	Lit bool

	// Transitions records every state written, in order.
	Transitions []bool

	// Closed tracks if Close was called.
	Closed bool

	// Err, if set, will be returned by On and Off.
	Err error
}

// NewFakeSwitch creates a FakeSwitch in the lit state.
func NewFakeSwitch() *FakeSwitch {
	return &FakeSwitch{Lit: true}
}

// On records a transition to lit.
func (s *FakeSwitch) On() error {
	if s.Err != nil {
		return s.Err
	}
	s.Lit = true
	s.Transitions = append(s.Transitions, true)
	return nil
}

// Off records a transition to dark.
func (s *FakeSwitch) Off() error {
	if s.Err != nil {
		return s.Err
	}
	s.Lit = false
	s.Transitions = append(s.Transitions, false)
	return nil
}

// Close marks the switch as closed.
func (s *FakeSwitch) Close() error {
	s.Closed = true
	return nil
}

// Reset clears recorded transitions.
func (s *FakeSwitch) Reset() {
	s.Lit = true
	s.Transitions = nil
	s.Closed = false
	s.Err = nil
}
