// Package position converts an eight-sensor reflectance reading into a
// lateral offset from the array centerline via a weighted centroid.
// This package is pure: no hardware, no I/O, no state between calls.
package position

import "errors"

// ErrNoSignal is returned when no sensor detects the line. This is an
// expected, recoverable condition (the robot ran off the line), not a fault;
// callers typically hold their last valid offset and flag it stale.
var ErrNoSignal = errors.New("position: no sensor detects the line")

// Offset is a lateral distance from the array centerline in tenths of a
// millimeter. Positive means the line lies toward the leftmost sensor.
type Offset int32

// Millimeters returns the offset in millimeters.
func (o Offset) Millimeters() float64 {
	return float64(o) / 10
}

// MaxOffset is the magnitude reported when only an outermost sensor sees
// the line. Every valid estimate lies in [-MaxOffset, MaxOffset].
const MaxOffset Offset = 33400

// weights holds each sensor's physical offset from the array centerline in
// tenths of a millimeter, index 0 = rightmost sensor through index 7 =
// leftmost. Downstream steering gains are tuned against these exact values;
// they must match the sensor spacing of the board, not be rescaled.
var weights = [8]int32{-33400, -23800, -14300, -4800, 4800, 14300, 23800, 33400}

// Estimate returns the weighted centroid of the set bits in reading: the sum
// of the detecting sensors' offsets divided (integer division) by how many
// detected. A single set bit returns that sensor's offset exactly; an empty
// reading returns ErrNoSignal before any division can occur.
func Estimate(reading uint8) (Offset, error) {
	var sum, count int32
	for i := 0; i < 8; i++ {
		if reading>>i&1 == 1 {
			sum += weights[i]
			count++
		}
	}
	if count == 0 {
		return 0, ErrNoSignal
	}
	return Offset(sum / count), nil
}
