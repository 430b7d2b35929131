package telemetry

import (
	"bufio"
	"bytes"
	"io"
	"sync/atomic"
)

// LineSource reads newline-delimited JSON samples from a stream, typically a
// serial device file. Malformed and blank lines are skipped.
type LineSource struct {
	r       io.ReadCloser
	ch      chan Sample
	dropped atomic.Uint64
}

// NewLineSource starts reading samples from r. The samples channel is closed
// when r reaches EOF or fails.
func NewLineSource(r io.ReadCloser) *LineSource {
	s := &LineSource{
		r:  r,
		ch: make(chan Sample, 16),
	}
	go s.readLoop()
	return s
}

func (s *LineSource) readLoop() {
	defer close(s.ch)

	scanner := bufio.NewScanner(s.r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		sample, err := ParseSample(line)
		if err != nil {
			s.dropped.Add(1)
			continue
		}
		s.ch <- sample
	}
}

// Samples returns the channel new samples arrive on.
func (s *LineSource) Samples() <-chan Sample {
	return s.ch
}

// Dropped returns the number of malformed records discarded so far.
func (s *LineSource) Dropped() uint64 {
	return s.dropped.Load()
}

// Close stops the reader; the read loop exits on the resulting stream error.
func (s *LineSource) Close() error {
	return s.r.Close()
}
