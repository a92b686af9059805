package track

import "time"

// Tracker debounces the per-cycle line signal and keeps the last valid
// offset. Debounce is counted in consecutive samples rather than elapsed
// time: the acquisition rate is set by the caller's control loop, and a
// glitch is "one bad cycle" regardless of how fast the loop runs.
type Tracker struct {
	confirmCount int
	state        LineState
	baselined    bool

	pending    LineState
	pendingRun int

	lastOffset  int32
	offsetKnown bool
	offsetStale bool

	startTime     time.Time
	lastHeartbeat time.Time
	counts        EventCounts
}

// NewTracker creates a tracker that requires confirmCount consecutive
// agreeing samples before changing state. confirmCount below 1 is treated
// as 1 (every sample is believed immediately).
func NewTracker(confirmCount int, startTime time.Time) *Tracker {
	if confirmCount < 1 {
		confirmCount = 1
	}
	return &Tracker{
		confirmCount:  confirmCount,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process takes one sample and returns the transition event to emit, or nil.
// No events are emitted until an initial baseline of confirmCount agreeing
// samples has been observed.
func (t *Tracker) Process(s Sample) *Event {
	t.counts.Samples++
	if s.NoSignal {
		t.counts.NoSignal++
	} else {
		t.lastOffset = s.Offset
		t.offsetKnown = true
		t.offsetStale = false
	}

	observed := StateAcquired
	if s.NoSignal {
		observed = StateLost
	}

	if !t.baselined {
		t.observePending(observed)
		if t.pendingRun >= t.confirmCount {
			t.state = t.pending
			t.baselined = true
			t.pending = ""
			t.pendingRun = 0
			if t.state == StateLost {
				t.offsetStale = t.offsetKnown
			}
		}
		return nil
	}

	if observed == t.state {
		// Agreement with the stable state clears any pending run.
		t.pending = ""
		t.pendingRun = 0
		return nil
	}

	t.observePending(observed)
	if t.pendingRun < t.confirmCount {
		return nil
	}

	t.state = observed
	t.pending = ""
	t.pendingRun = 0

	ev := &Event{
		Timestamp:   s.Time,
		State:       t.state,
		Offset:      t.lastOffset,
		OffsetKnown: t.offsetKnown,
		Reading:     s.Reading,
	}
	if t.state == StateAcquired {
		ev.Type = EventLineAcquired
		t.counts.Acquired++
	} else {
		ev.Type = EventLineLost
		t.counts.Lost++
		t.offsetStale = t.offsetKnown
	}
	return ev
}

// observePending extends or restarts the run of samples disagreeing with
// the stable state.
func (t *Tracker) observePending(observed LineState) {
	if t.pending != observed {
		t.pending = observed
		t.pendingRun = 1
		return
	}
	t.pendingRun++
}

// IsBaselined returns whether the tracker has established a baseline.
func (t *Tracker) IsBaselined() bool {
	return t.baselined
}

// State returns the current debounced line state.
func (t *Tracker) State() LineState {
	return t.state
}

// LastOffset returns the most recent valid offset, whether it is stale
// (the line has since been lost), and whether any valid offset has been
// seen at all.
func (t *Tracker) LastOffset() (offset int32, stale bool, ok bool) {
	return t.lastOffset, t.offsetStale, t.offsetKnown
}

// Counts returns a copy of the event counts.
func (t *Tracker) Counts() EventCounts {
	return t.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if not yet baselined, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (t *Tracker) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if !t.baselined {
		return nil
	}
	if now.Sub(t.lastHeartbeat) < interval {
		return nil
	}
	t.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(t.startTime),
		State:     t.state,
		Counts:    t.counts,
	}
}
