// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/line-sensor/internal/track"
)

// Topic is the MQTT topic for line tracking events.
const Topic = "robot/line/sensor/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "robot/line/sensor/system"

// TopicBump is the MQTT topic for bump switch presses.
const TopicBump = "robot/line/sensor/bump"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a line tracking event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event track.Event) error

	// PublishBump sends a bump switch press to the broker.
	PublishBump(event BumpEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// BumpEvent represents one bump switch press.
type BumpEvent struct {
	Timestamp time.Time
	Switch    int // 0 = rightmost switch, 5 = leftmost
}

// Payload represents the MQTT message payload structure for line events.
type Payload struct {
	Line LinePayload `json:"line"`
}

// LinePayload contains the line tracking event details.
type LinePayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	State     string `json:"state"`
	// OffsetTenthsMM is the last valid lateral offset in tenths of a
	// millimeter; omitted until a valid estimate has been seen.
	OffsetTenthsMM *int32 `json:"offset_tenths_mm,omitempty"`
	// Reading is the raw sensor bitmask, leftmost sensor first.
	Reading string `json:"reading"`
}

// FormatPayload creates the JSON payload for a line tracking event.
func FormatPayload(event track.Event) ([]byte, error) {
	payload := Payload{
		Line: LinePayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     string(event.State),
			Reading:   fmt.Sprintf("%08b", event.Reading),
		},
	}
	if event.OffsetKnown {
		offset := event.Offset
		payload.Line.OffsetTenthsMM = &offset
	}
	return json.Marshal(payload)
}

// BumpPayload represents the MQTT message payload for bump presses.
type BumpPayload struct {
	Bump BumpPayloadInner `json:"bump"`
}

// BumpPayloadInner contains the bump press details.
type BumpPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Switch    int    `json:"switch"`
}

// FormatBumpPayload creates the JSON payload for a bump press.
func FormatBumpPayload(event BumpEvent) ([]byte, error) {
	payload := BumpPayload{
		Bump: BumpPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Switch:    event.Switch,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
