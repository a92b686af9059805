package mqtt

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/line-sensor/internal/track"
)

func TestFormatPayload(t *testing.T) {
	event := track.Event{
		Timestamp:   time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Type:        track.EventLineLost,
		State:       track.StateLost,
		Offset:      -4800,
		OffsetKnown: true,
		Reading:     0x00,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Line.Timestamp != "2026-03-14T09:26:53Z" {
		t.Errorf("timestamp: got %q", payload.Line.Timestamp)
	}
	if payload.Line.Event != "LINE_LOST" {
		t.Errorf("event: got %q", payload.Line.Event)
	}
	if payload.Line.State != "LOST" {
		t.Errorf("state: got %q", payload.Line.State)
	}
	if payload.Line.OffsetTenthsMM == nil || *payload.Line.OffsetTenthsMM != -4800 {
		t.Errorf("offset: got %v", payload.Line.OffsetTenthsMM)
	}
	if payload.Line.Reading != "00000000" {
		t.Errorf("reading: got %q", payload.Line.Reading)
	}
}

func TestFormatPayloadOmitsUnknownOffset(t *testing.T) {
	event := track.Event{
		Timestamp: time.Now(),
		Type:      track.EventLineAcquired,
		State:     track.StateAcquired,
		Reading:   0x18,
	}
	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}
	if strings.Contains(string(data), "offset_tenths_mm") {
		t.Errorf("expected offset omitted when unknown, got %s", data)
	}
	if !strings.Contains(string(data), `"reading":"00011000"`) {
		t.Errorf("expected binary reading field, got %s", data)
	}
}

func TestFormatBumpPayload(t *testing.T) {
	data, err := FormatBumpPayload(BumpEvent{
		Timestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Switch:    5,
	})
	if err != nil {
		t.Fatalf("FormatBumpPayload: %v", err)
	}

	var payload BumpPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Bump.Switch != 5 {
		t.Errorf("switch: got %d", payload.Bump.Switch)
	}
	if payload.Bump.Timestamp != "2026-03-14T09:26:53Z" {
		t.Errorf("timestamp: got %q", payload.Bump.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}
	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var payload SystemPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.System.Event != "SHUTDOWN" || payload.System.Reason != "SIGTERM" {
		t.Errorf("unexpected system payload: %+v", payload.System)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"custom":true}}`)
	data, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := track.Event{Type: track.EventLineAcquired, State: track.StateAcquired, Timestamp: time.Now()}
	if err := f.Publish(event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := f.PublishBump(BumpEvent{Switch: 2, Timestamp: time.Now()}); err != nil {
		t.Fatalf("PublishBump: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP", Timestamp: time.Now()}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	if len(f.Events) != 1 || len(f.Payloads) != 1 {
		t.Errorf("expected one recorded line event, got %d/%d", len(f.Events), len(f.Payloads))
	}
	if len(f.BumpEvents) != 1 {
		t.Errorf("expected one recorded bump event, got %d", len(f.BumpEvents))
	}
	if len(f.SystemEvents) != 1 || len(f.SystemPayloads) != 1 {
		t.Errorf("expected one recorded system event, got %d/%d", len(f.SystemEvents), len(f.SystemPayloads))
	}

	f.Close()
	if !f.Closed {
		t.Error("expected Closed set")
	}

	f.Reset()
	if len(f.Events) != 0 || f.Closed {
		t.Error("expected Reset to clear state")
	}
}
