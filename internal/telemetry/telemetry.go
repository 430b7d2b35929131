// Package telemetry receives host monitoring samples with abstraction for
// testing. Sources deliver samples over a channel; malformed records are
// dropped silently and counted, never surfaced to the control loop.
package telemetry

import "encoding/json"

// DefaultTopic is the MQTT topic the host monitor publishes samples on.
const DefaultTopic = "monitor/host/telemetry"

// Sample is one telemetry reading from the monitored host.
type Sample struct {
	CPUTemp int    // 0-100
	CPULoad int    // 0-100
	Clock   string // host wall-clock label "HH:MM:SS", may be empty
}

// wireSample matches the JSON the host monitor emits:
// {"time":"12:34:56","cpu_load":42,"cpu_temp":55}.
// Missing numeric fields decode as zero, matching the panel firmware parser.
type wireSample struct {
	Time    string `json:"time"`
	CPULoad int    `json:"cpu_load"`
	CPUTemp int    `json:"cpu_temp"`
}

// ParseSample decodes one JSON telemetry record.
func ParseSample(data []byte) (Sample, error) {
	var w wireSample
	if err := json.Unmarshal(data, &w); err != nil {
		return Sample{}, err
	}
	return Sample{CPUTemp: w.CPUTemp, CPULoad: w.CPULoad, Clock: w.Time}, nil
}

// Source delivers telemetry samples to the control loop.
type Source interface {
	// Samples returns the channel new samples arrive on.
	Samples() <-chan Sample

	// Dropped returns the number of malformed or discarded records so far.
	Dropped() uint64

	// Close stops the source and releases its resources.
	Close() error
}
