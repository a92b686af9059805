package pinbank

import "fmt"

// Recorder collects a journal of hardware operations in the order they were
// issued. Tests share one Recorder between a FakeBank, FakeOutputs, and the
// driver's delay function to assert protocol ordering.
type Recorder struct {
	Ops []string
}

// Record appends a formatted entry to the journal.
func (r *Recorder) Record(format string, args ...any) {
	if r == nil {
		return
	}
	r.Ops = append(r.Ops, fmt.Sprintf(format, args...))
}

// FakeBank is a simulated eight-line register file.
type FakeBank struct {
	// DirMask holds the direction register: bit set = output.
	DirMask byte

	// OutLatch holds the output latch, retained across direction flips
	// like real port hardware.
	OutLatch byte

	// InputSamples contains scripted values returned by successive Read
	// calls. When exhausted, the last sample repeats. While a line is
	// configured as output, Read returns its latch bit instead (charged
	// capacitor reads high).
	InputSamples []byte

	index int

	// Closed tracks if Close was called.
	Closed bool

	// SetDirectionErr, WriteErr and ReadErr inject failures.
	SetDirectionErr error
	WriteErr        error
	ReadErr         error

	rec *Recorder
}

// NewFakeBank creates a FakeBank journaling to rec (may be nil).
func NewFakeBank(rec *Recorder, samples ...byte) *FakeBank {
	return &FakeBank{InputSamples: samples, rec: rec}
}

// SetDirection updates the simulated direction register.
func (f *FakeBank) SetDirection(mask byte, dir Direction) error {
	if f.SetDirectionErr != nil {
		return f.SetDirectionErr
	}
	name := "in"
	if dir == Output {
		name = "out"
		f.DirMask |= mask
	} else {
		f.DirMask &^= mask
	}
	f.rec.Record("dir mask=%02x %s", mask, name)
	return nil
}

// Write updates the simulated output latch.
func (f *FakeBank) Write(mask, value byte) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.OutLatch = f.OutLatch&^mask | value&mask
	f.rec.Record("write mask=%02x value=%02x", mask, value)
	return nil
}

// Read returns the next scripted sample for input lines, merged with the
// latch for any lines still configured as outputs.
func (f *FakeBank) Read() (byte, error) {
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}
	var sample byte
	if len(f.InputSamples) > 0 {
		sample = f.InputSamples[f.index]
		if f.index < len(f.InputSamples)-1 {
			f.index++
		}
	}
	result := sample&^f.DirMask | f.OutLatch&f.DirMask
	f.rec.Record("read -> %02x", result)
	return result, nil
}

// Close marks the bank as closed.
func (f *FakeBank) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the scripted samples and clears recorded state.
func (f *FakeBank) Reset() {
	f.index = 0
	f.DirMask = 0
	f.OutLatch = 0
	f.Closed = false
}

// FakeOutput is a simulated emitter-control line.
type FakeOutput struct {
	// Name labels journal entries ("even", "odd").
	Name string

	// On is the current drive level.
	On bool

	// History records every level set.
	History []bool

	// Closed tracks if Close was called.
	Closed bool

	// SetErr injects a failure into Set.
	SetErr error

	rec *Recorder
}

// NewFakeOutput creates a FakeOutput journaling to rec (may be nil).
func NewFakeOutput(name string, rec *Recorder) *FakeOutput {
	return &FakeOutput{Name: name, rec: rec}
}

// Set records the new drive level.
func (o *FakeOutput) Set(on bool) error {
	if o.SetErr != nil {
		return o.SetErr
	}
	o.On = on
	o.History = append(o.History, on)
	o.rec.Record("%s=%v", o.Name, on)
	return nil
}

// Close marks the output as closed.
func (o *FakeOutput) Close() error {
	o.Closed = true
	return nil
}
