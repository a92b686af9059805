// Package status provides a thread-safe status tracker for the line-sensor
// daemon. It is read by HTTP handlers while the sensing loop writes to it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/line-sensor/internal/track"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs       int64
	DecayWaitUs  int64
	ConfirmCount int
	HeartbeatMs  int64
	Broker       string
	HTTPAddr     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Line        track.LineState
	Reading     uint8
	Offset      int32
	OffsetKnown bool
	OffsetStale bool
	Baselined   bool
	Counts      track.EventCounts

	BumpMask    byte
	BumpPresses int

	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
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

// Update sets the line state, latest reading/offset, and event counts.
// Called from the sensing loop on every cycle.
func (t *Tracker) Update(state track.LineState, reading uint8, offset int32, offsetKnown, offsetStale, baselined bool, counts track.EventCounts) {
	t.mu.Lock()
	t.snap.Line = state
	t.snap.Reading = reading
	t.snap.Offset = offset
	t.snap.OffsetKnown = offsetKnown
	t.snap.OffsetStale = offsetStale
	t.snap.Baselined = baselined
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetBump sets the current bump switch mask.
func (t *Tracker) SetBump(mask byte) {
	t.mu.Lock()
	t.snap.BumpMask = mask
	t.mu.Unlock()
}

// AddBumpPress increments the press counter. Safe to call from the edge
// event goroutine.
func (t *Tracker) AddBumpPress() {
	t.mu.Lock()
	t.snap.BumpPresses++
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
