package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/line-sensor/internal/mqtt"
	"github.com/sweeney/line-sensor/internal/pinbank"
	"github.com/sweeney/line-sensor/internal/position"
	"github.com/sweeney/line-sensor/internal/reflectance"
	"github.com/sweeney/line-sensor/internal/track"
)

// TestIntegrationFullFlow tests the complete flow from simulated pins to
// MQTT payloads: acquisition protocol -> position estimate -> line tracker
// -> published event.
func TestIntegrationFullFlow(t *testing.T) {
	// Simulate: robot centered on the line, drifting right (line moves
	// toward the right sensors), then running off the line entirely.
	samples := []byte{
		// Baseline establishment (confirm count 3)
		0b00011000, // centered
		0b00011000,
		0b00011000,
		// Drift: line under sensors 2 and 3
		0b00001100,
		0b00001100,
		// Line lost
		0b00000000,
		0b00000000,
		0b00000000, // LINE_LOST confirmed here
	}

	bank := pinbank.NewFakeBank(nil, samples...)
	even := pinbank.NewFakeOutput("even", nil)
	odd := pinbank.NewFakeOutput("odd", nil)
	array := reflectance.New(bank, even, odd, func(int) {})
	if err := array.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	publisher := mqtt.NewFakePublisher()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lineTracker := track.NewTracker(3, now)

	for range samples {
		now = now.Add(20 * time.Millisecond)

		reading, err := array.Read(1000)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}

		sample := track.Sample{Reading: uint8(reading), Time: now}
		offset, err := position.Estimate(uint8(reading))
		if err != nil {
			sample.NoSignal = true
		} else {
			sample.Offset = int32(offset)
		}

		if event := lineTracker.Process(sample); event != nil {
			if err := publisher.Publish(*event); err != nil {
				t.Fatalf("Publish: %v", err)
			}
		}

		// The protocol must be symmetric every cycle.
		if even.On || odd.On {
			t.Fatal("emitters left on between cycles")
		}
	}

	if len(publisher.Events) != 1 {
		t.Fatalf("expected 1 published event, got %d: %v", len(publisher.Events), publisher.Events)
	}
	ev := publisher.Events[0]
	if ev.Type != track.EventLineLost {
		t.Errorf("expected LINE_LOST, got %v", ev.Type)
	}
	// Last valid estimate before the loss: sensors 2 and 3.
	wantOffset := int32((-14300 + -4800) / 2)
	if !ev.OffsetKnown || ev.Offset != wantOffset {
		t.Errorf("expected last valid offset %d, got %d (known=%v)", wantOffset, ev.Offset, ev.OffsetKnown)
	}

	// The published payload carries the stale offset and the empty reading.
	var payload mqtt.Payload
	if err := json.Unmarshal(publisher.Payloads[0], &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Line.Event != "LINE_LOST" || payload.Line.Reading != "00000000" {
		t.Errorf("unexpected payload: %+v", payload.Line)
	}
	if payload.Line.OffsetTenthsMM == nil || *payload.Line.OffsetTenthsMM != wantOffset {
		t.Errorf("payload offset: got %v", payload.Line.OffsetTenthsMM)
	}
}

// TestIntegrationSplitPhaseMatchesBlocking verifies both acquisition modes
// run the same protocol and produce the same reading for the same register
// state.
func TestIntegrationSplitPhaseMatchesBlocking(t *testing.T) {
	newArray := func() *reflectance.Array {
		bank := pinbank.NewFakeBank(nil, 0b01100110)
		a := reflectance.New(bank, pinbank.NewFakeOutput("even", nil), pinbank.NewFakeOutput("odd", nil), func(int) {})
		if err := a.Init(); err != nil {
			t.Fatalf("Init: %v", err)
		}
		return a
	}

	blocking, err := newArray().Read(1000)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	session, err := newArray().Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	split, err := session.End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}

	if blocking != split {
		t.Errorf("blocking read %s != split-phase read %s", blocking, split)
	}

	// Both modes must feed the estimator identically.
	a, err := position.Estimate(uint8(blocking))
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	b, err := position.Estimate(uint8(split))
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if a != b {
		t.Errorf("estimates differ: %d vs %d", a, b)
	}
}
