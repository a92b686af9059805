// Package pinbank provides the hardware abstraction for the reflectance
// sensor's GPIO lines. The real implementation uses the Linux GPIO character
// device. The fake implementation simulates a register file so the driver's
// charge/decay protocol can be tested without hardware.
package pinbank

import "time"

// Direction is the configured direction of a sensor line.
type Direction int

const (
	Input Direction = iota
	Output
)

// Bank is a group of eight GPIO lines addressed as one byte. Bit i of every
// mask and value refers to line i (line 0 = rightmost sensor on the array).
type Bank interface {
	// SetDirection reconfigures the lines selected by mask.
	SetDirection(mask byte, dir Direction) error

	// Write drives the output latch of the lines selected by mask.
	// Only lines currently configured as outputs change level.
	Write(mask, value byte) error

	// Read samples all eight lines as one byte.
	Read() (byte, error)

	// Close releases the lines.
	Close() error
}

// OutputLine is a single dedicated output line (IR emitter control).
type OutputLine interface {
	// Set drives the line high (true) or low (false).
	Set(on bool) error

	// Close releases the line.
	Close() error
}

// DelayMicros busy-waits for n microseconds. The charge/decay protocol needs
// microsecond-granularity waits; time.Sleep rounds up to scheduler granularity
// and would stretch a 10 us charge pulse into milliseconds.
func DelayMicros(n int) {
	deadline := time.Now().Add(time.Duration(n) * time.Microsecond)
	for time.Now().Before(deadline) {
	}
}

// Default BCM line offsets for the QTR-8RC breakout as wired on the reference
// robot. Line offsets[0] is the rightmost sensor, offsets[7] the leftmost.
var DefaultSensorLines = []int{5, 6, 13, 19, 26, 16, 20, 21}

// Default BCM line offsets for the even/odd IR emitter banks.
const (
	DefaultEvenEmitterLine = 23
	DefaultOddEmitterLine  = 24
)
