// Package track contains pure caller-side policy for line following:
// debounced acquisition/loss detection and last-valid-offset tracking.
// This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package track

import "time"

// LineState represents whether the tracker currently believes the array is
// over the line.
type LineState string

const (
	StateAcquired LineState = "ACQUIRED"
	StateLost     LineState = "LOST"
)

// EventType represents a line state transition event.
type EventType string

const (
	EventLineAcquired EventType = "LINE_ACQUIRED"
	EventLineLost     EventType = "LINE_LOST"
)

// Sample is one acquisition cycle's result. NoSignal set means the estimator
// had no set bits to work with; Offset is meaningless in that case.
type Sample struct {
	Reading  uint8
	Offset   int32
	NoSignal bool
	Time     time.Time
}

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     LineState
	// Offset is the last valid offset known at the time of the event,
	// in tenths of a millimeter. Stale after a loss.
	Offset      int32
	OffsetKnown bool
	Reading     uint8
}

// EventCounts tracks occurrences since startup.
type EventCounts struct {
	Acquired int
	Lost     int
	NoSignal int
	Samples  int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	State     LineState
	Counts    EventCounts
}
