package telemetry

// FakeSource is a test double that delivers scripted samples on demand.
type FakeSource struct {
	ch chan Sample

	// DroppedCount controls the return value of Dropped.
	DroppedCount uint64

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSource creates a FakeSource with room for buffered samples.
func NewFakeSource() *FakeSource {
	return &FakeSource{ch: make(chan Sample, 16)}
}

// Emit delivers one sample to the consumer.
func (f *FakeSource) Emit(s Sample) {
	f.ch <- s
}

// Samples returns the channel new samples arrive on.
func (f *FakeSource) Samples() <-chan Sample {
	return f.ch
}

// Dropped returns the scripted dropped count.
func (f *FakeSource) Dropped() uint64 {
	return f.DroppedCount
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}
