package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string     `json:"event,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Line           string     `json:"line"`
	Reading        string     `json:"reading"`
	OffsetTenthsMM *int32     `json:"offset_tenths_mm,omitempty"`
	OffsetStale    bool       `json:"offset_stale"`
	Ready          bool       `json:"ready"`
	Bump           BumpJSON   `json:"bump"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	StartTime      string     `json:"start_time"`
	Timestamp      string     `json:"timestamp"`
	MQTT           MQTTStatus `json:"mqtt"`
	Counts         CountsJSON `json:"event_counts"`
	Config         ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// BumpJSON is the JSON representation of the bump switch bank.
type BumpJSON struct {
	Mask    string `json:"mask"`
	Presses int    `json:"presses"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Acquired int `json:"line_acquired"`
	Lost     int `json:"line_lost"`
	NoSignal int `json:"no_signal_samples"`
	Samples  int `json:"samples"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs       int64  `json:"poll_ms"`
	DecayWaitUs  int64  `json:"decay_wait_us"`
	ConfirmCount int    `json:"confirm_count"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	line := string(snap.Line)
	if line == "" {
		line = "UNKNOWN"
	}

	inner := StatusInner{
		Line:          line,
		Reading:       fmt.Sprintf("%08b", snap.Reading),
		OffsetStale:   snap.OffsetStale,
		Ready:         snap.Baselined,
		Bump:          BumpJSON{Mask: fmt.Sprintf("%06b", snap.BumpMask), Presses: snap.BumpPresses},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Acquired: snap.Counts.Acquired,
			Lost:     snap.Counts.Lost,
			NoSignal: snap.Counts.NoSignal,
			Samples:  snap.Counts.Samples,
		},
		Config: ConfigJSON{
			PollMs:       snap.Config.PollMs,
			DecayWaitUs:  snap.Config.DecayWaitUs,
			ConfirmCount: snap.Config.ConfirmCount,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}
	if snap.OffsetKnown {
		offset := snap.Offset
		inner.OffsetTenthsMM = &offset
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
