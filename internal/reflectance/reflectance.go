// Package reflectance drives a QTR-8RC style reflectance sensor array.
// Each of the eight sensors is a phototransistor whose line is charged high
// and then released to input mode; the line decays low at a rate set by how
// much infrared light the surface reflects back. Sampling after a fixed wait
// turns the analog decay time into one binary detection per sensor.
package reflectance

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"github.com/sweeney/line-sensor/internal/pinbank"
)

// Protocol constants.
const (
	// ChargePulseMicros is the fixed output-high pulse that charges the
	// sensor capacitors. This is a property of the sensor hardware, not a
	// tuning knob.
	ChargePulseMicros = 10

	// SettleTime is the recommended wait between Start and Session.End.
	// Ending earlier than this samples lines that have not finished
	// decaying and yields semantically stale data (not an error).
	SettleTime = time.Millisecond
)

const (
	allLines    = 0xFF
	centerMask  = 0x18
	centerShift = 3
)

// Sequence errors. Misordered calls against the raw hardware would silently
// return garbage; here they fail fast instead.
var (
	ErrNotInitialized = errors.New("reflectance: Init has not been called")
	ErrSessionOpen    = errors.New("reflectance: a split-phase session is already open")
	ErrSessionDone    = errors.New("reflectance: session already ended")
)

// Reading is one snapshot of the eight sensors. Bit i set means sensor i is
// over the line (enough reflected IR to hold the decay above threshold at
// sample time). Bit 0 is the rightmost physical sensor, bit 7 the leftmost.
// This polarity is fixed by the board's wiring; it is documented here rather
// than left to be inferred from downstream sign conventions.
type Reading uint8

// Sensor reports whether sensor i (0-7) detected the line.
func (r Reading) Sensor(i int) bool {
	return r>>i&1 == 1
}

// Count returns the number of sensors detecting the line.
func (r Reading) Count() int {
	return bits.OnesCount8(uint8(r))
}

// String formats the reading as a bit pattern, leftmost sensor first.
func (r Reading) String() string {
	return fmt.Sprintf("%08b", uint8(r))
}

// CenterState is the reduced 4-state signal from the two centermost sensors,
// for control loops that cannot afford full-array integration every cycle.
type CenterState uint8

const (
	// Lost: neither center sensor sees the line.
	Lost CenterState = 0b00
	// DriftLeft: only the right-of-center sensor sees the line — the robot
	// has drifted left of it.
	DriftLeft CenterState = 0b01
	// DriftRight: only the left-of-center sensor sees the line.
	DriftRight CenterState = 0b10
	// Centered: both center sensors see the line.
	Centered CenterState = 0b11
)

// String returns a human-readable name for the state.
func (c CenterState) String() string {
	switch c {
	case Lost:
		return "LOST"
	case DriftLeft:
		return "DRIFT_LEFT"
	case DriftRight:
		return "DRIFT_RIGHT"
	case Centered:
		return "CENTERED"
	}
	return fmt.Sprintf("CenterState(%d)", uint8(c))
}

// DelayFunc busy-waits for the given number of microseconds. Injectable so
// tests can journal waits instead of spinning.
type DelayFunc func(micros int)

// Array owns the sensor bank and the two IR emitter banks (the physical
// board splits the emitters into even- and odd-numbered groups). The pin
// bank is exclusively owned between Init and Close; nothing else may touch
// those lines mid-protocol.
type Array struct {
	bank  pinbank.Bank
	even  pinbank.OutputLine
	odd   pinbank.OutputLine
	delay DelayFunc

	initialized bool
	sessionOpen bool
}

// New creates an Array over the given bank and emitter lines. A nil delay
// uses the busy-wait default.
func New(bank pinbank.Bank, even, odd pinbank.OutputLine, delay DelayFunc) *Array {
	if delay == nil {
		delay = pinbank.DelayMicros
	}
	return &Array{bank: bank, even: even, odd: odd, delay: delay}
}

// Init configures the emitter lines off and the sensor lines as inputs.
// Must be called once before any acquisition.
func (a *Array) Init() error {
	if err := a.illuminate(false); err != nil {
		return fmt.Errorf("emitters off: %w", err)
	}
	if err := a.bank.SetDirection(allLines, pinbank.Input); err != nil {
		return fmt.Errorf("sensor lines to input: %w", err)
	}
	a.initialized = true
	return nil
}

// Read performs one blocking acquisition: emitters on, 10 us charge pulse,
// lines to input, wait waitMicros for the capacitors to decay, sample all
// eight lines, emitters off. The wait trades dynamic range against cycle
// latency: shorter discriminates high-reflectance surfaces, longer picks up
// dark ones. Callers tune it empirically for their surface.
func (a *Array) Read(waitMicros int) (Reading, error) {
	sample, err := a.acquire(waitMicros)
	return Reading(sample), err
}

// ReadCenter runs the identical protocol but reports only the two center
// sensors: bit 1 = left-of-center, bit 0 = right-of-center.
func (a *Array) ReadCenter(waitMicros int) (CenterState, error) {
	sample, err := a.acquire(waitMicros)
	return CenterState(sample & centerMask >> centerShift), err
}

// Start begins a split-phase acquisition: emitters on, charge pulse, lines
// to input, then return without sampling. The caller does other work during
// the decay wait and finishes with Session.End after SettleTime. Only one
// session may be open at a time; Read and ReadCenter are also refused while
// one is open, because they would share the same lines mid-decay.
func (a *Array) Start() (*Session, error) {
	if !a.initialized {
		return nil, ErrNotInitialized
	}
	if a.sessionOpen {
		return nil, ErrSessionOpen
	}
	if err := a.arm(); err != nil {
		// Do not leave the emitters lit behind a failed start.
		a.illuminate(false)
		return nil, err
	}
	a.sessionOpen = true
	return &Session{array: a}, nil
}

// Close releases the emitter lines and the sensor bank.
func (a *Array) Close() error {
	var errs []error
	if err := a.even.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close even emitters: %w", err))
	}
	if err := a.odd.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close odd emitters: %w", err))
	}
	if err := a.bank.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sensor bank: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// acquire runs the full blocking protocol and returns the raw sample byte.
// The emitters are switched off on every path out, including bank errors.
func (a *Array) acquire(waitMicros int) (byte, error) {
	if !a.initialized {
		return 0, ErrNotInitialized
	}
	if a.sessionOpen {
		return 0, ErrSessionOpen
	}

	if err := a.arm(); err != nil {
		a.illuminate(false)
		return 0, err
	}

	a.delay(waitMicros)

	sample, err := a.bank.Read()
	if offErr := a.illuminate(false); err == nil {
		err = offErr
	}
	return sample, err
}

// arm is the shared front half of every acquisition: emitters on, drive all
// lines high for the fixed charge pulse, then release them to input mode so
// the decay can begin.
func (a *Array) arm() error {
	if err := a.illuminate(true); err != nil {
		return fmt.Errorf("emitters on: %w", err)
	}
	if err := a.bank.SetDirection(allLines, pinbank.Output); err != nil {
		return fmt.Errorf("sensor lines to output: %w", err)
	}
	if err := a.bank.Write(allLines, allLines); err != nil {
		return fmt.Errorf("charge sensor lines: %w", err)
	}
	a.delay(ChargePulseMicros)
	if err := a.bank.SetDirection(allLines, pinbank.Input); err != nil {
		return fmt.Errorf("sensor lines to input: %w", err)
	}
	return nil
}

// illuminate switches both emitter banks. On failure the second bank is
// still attempted, so a single bad line cannot strand the other bank lit.
func (a *Array) illuminate(on bool) error {
	evenErr := a.even.Set(on)
	oddErr := a.odd.Set(on)
	if evenErr != nil {
		return fmt.Errorf("even emitters: %w", evenErr)
	}
	if oddErr != nil {
		return fmt.Errorf("odd emitters: %w", oddErr)
	}
	return nil
}

// Session is an in-flight split-phase acquisition. Its only operation is
// End; holding the handle is what entitles the caller to finish the cycle.
type Session struct {
	array *Array
	done  bool
}

// End samples the eight lines and switches the emitters off, completing the
// session. Calling End before SettleTime has elapsed since Start returns
// stale data, not an error — the protocol still runs to completion so the
// next cycle starts from a consistent charge state.
func (s *Session) End() (Reading, error) {
	if s.done {
		return 0, ErrSessionDone
	}
	s.done = true
	s.array.sessionOpen = false

	sample, err := s.array.bank.Read()
	if offErr := s.array.illuminate(false); err == nil {
		err = offErr
	}
	return Reading(sample), err
}
