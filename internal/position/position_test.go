package position

import (
	"errors"
	"testing"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name    string
		reading uint8
		want    Offset
	}{
		{"rightmost only", 0b00000001, -33400},
		{"leftmost only", 0b10000000, 33400},
		{"center pair cancels", 0b00011000, 0},
		{"all sensors cancel by symmetry", 0b11111111, 0},
		{"single inner sensor", 0b00001000, -4800},
		{"adjacent pair right of center", 0b00000110, (-23800 + -14300) / 2},
		{"asymmetric trio", 0b00010110, (-23800 + -14300 + 4800) / 3},
		{"both outer sensors", 0b10000001, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(tt.reading)
			if err != nil {
				t.Fatalf("Estimate(%08b): %v", tt.reading, err)
			}
			if got != tt.want {
				t.Errorf("Estimate(%08b): expected %d, got %d", tt.reading, tt.want, got)
			}
		})
	}
}

func TestEstimateNoSignal(t *testing.T) {
	_, err := Estimate(0)
	if !errors.Is(err, ErrNoSignal) {
		t.Errorf("expected ErrNoSignal for empty reading, got %v", err)
	}
}

func TestEstimateRange(t *testing.T) {
	// Every non-empty reading must land within the physical array.
	for reading := 1; reading <= 0xFF; reading++ {
		got, err := Estimate(uint8(reading))
		if err != nil {
			t.Fatalf("Estimate(%08b): %v", reading, err)
		}
		if got < -MaxOffset || got > MaxOffset {
			t.Errorf("Estimate(%08b) = %d, outside [-%d, %d]", reading, got, MaxOffset, MaxOffset)
		}
	}
}

func TestEstimateSingleSensorExact(t *testing.T) {
	// One set bit must return that sensor's physical offset exactly.
	want := []Offset{-33400, -23800, -14300, -4800, 4800, 14300, 23800, 33400}
	for i := 0; i < 8; i++ {
		got, err := Estimate(1 << i)
		if err != nil {
			t.Fatalf("Estimate(bit %d): %v", i, err)
		}
		if got != want[i] {
			t.Errorf("sensor %d: expected %d, got %d", i, want[i], got)
		}
	}
}

func TestEstimateSymmetry(t *testing.T) {
	// Mirroring a reading about the array center negates the offset.
	for reading := 1; reading <= 0xFF; reading++ {
		var mirrored uint8
		for i := 0; i < 8; i++ {
			if reading>>i&1 == 1 {
				mirrored |= 1 << (7 - i)
			}
		}
		a, err := Estimate(uint8(reading))
		if err != nil {
			t.Fatalf("Estimate(%08b): %v", reading, err)
		}
		b, err := Estimate(mirrored)
		if err != nil {
			t.Fatalf("Estimate(%08b): %v", mirrored, err)
		}
		if a != -b {
			t.Errorf("mirror of %08b: expected %d, got %d", reading, -a, b)
		}
	}
}

func TestOffsetMillimeters(t *testing.T) {
	if mm := Offset(-4800).Millimeters(); mm != -480 {
		t.Errorf("expected -480mm, got %v", mm)
	}
	if mm := Offset(0).Millimeters(); mm != 0 {
		t.Errorf("expected 0mm, got %v", mm)
	}
}
