//go:build linux

package pinbank

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealBank drives eight GPIO lines through the Linux GPIO character device.
// Lines are requested individually so direction can be flipped per mask bit.
type RealBank struct {
	chip  *gpiocdev.Chip
	lines [8]*gpiocdev.Line
	dirs  [8]Direction
}

// NewRealBank requests the eight sensor lines on the named chip
// (e.g. "gpiochip0"). Lines start as inputs with bias disabled — the sensor
// capacitor provides the level, so pull resistors would corrupt the decay.
func NewRealBank(chip string, offsets []int) (*RealBank, error) {
	if len(offsets) != 8 {
		return nil, fmt.Errorf("pinbank: need exactly 8 line offsets, got %d", len(offsets))
	}

	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}

	b := &RealBank{chip: c}
	for i, offset := range offsets {
		line, err := c.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithBiasDisabled)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request sensor line %d (offset %d): %w", i, offset, err)
		}
		b.lines[i] = line
		b.dirs[i] = Input
	}
	return b, nil
}

// SetDirection reconfigures the lines selected by mask.
func (b *RealBank) SetDirection(mask byte, dir Direction) error {
	for i := 0; i < 8; i++ {
		if mask>>i&1 == 0 {
			continue
		}
		var err error
		if dir == Output {
			err = b.lines[i].Reconfigure(gpiocdev.AsOutput(0))
		} else {
			err = b.lines[i].Reconfigure(gpiocdev.AsInput)
		}
		if err != nil {
			return fmt.Errorf("reconfigure line %d: %w", i, err)
		}
		b.dirs[i] = dir
	}
	return nil
}

// Write drives the selected output lines. Lines still configured as inputs
// are skipped; their latch takes effect on the next flip to output.
func (b *RealBank) Write(mask, value byte) error {
	for i := 0; i < 8; i++ {
		if mask>>i&1 == 0 || b.dirs[i] != Output {
			continue
		}
		if err := b.lines[i].SetValue(int(value >> i & 1)); err != nil {
			return fmt.Errorf("write line %d: %w", i, err)
		}
	}
	return nil
}

// Read samples all eight lines as one byte.
func (b *RealBank) Read() (byte, error) {
	var result byte
	for i := 0; i < 8; i++ {
		v, err := b.lines[i].Value()
		if err != nil {
			return 0, fmt.Errorf("read line %d: %w", i, err)
		}
		if v != 0 {
			result |= 1 << i
		}
	}
	return result, nil
}

// Close releases all requested lines and the chip. Lines are returned to
// input first so a dangling output cannot hold a capacitor charged across
// restarts.
func (b *RealBank) Close() error {
	var errs []error
	for i, line := range b.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line %d: %w", i, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line %d: %w", i, err))
		}
		b.lines[i] = nil
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		b.chip = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealOutput is a single emitter-control line on the GPIO character device.
type RealOutput struct {
	line *gpiocdev.Line
}

// NewRealOutput requests one output line, driven low initially.
func NewRealOutput(chip string, offset int) (*RealOutput, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}
	line, err := c.RequestLine(offset, gpiocdev.AsOutput(0))
	// The chip handle is only needed while requesting; the line keeps its own.
	c.Close()
	if err != nil {
		return nil, fmt.Errorf("request output line %d: %w", offset, err)
	}
	return &RealOutput{line: line}, nil
}

// Set drives the line high or low.
func (o *RealOutput) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := o.line.SetValue(v); err != nil {
		return fmt.Errorf("set output: %w", err)
	}
	return nil
}

// Close drives the line low and releases it, so the emitters cannot be left
// on after shutdown.
func (o *RealOutput) Close() error {
	var errs []error
	if err := o.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("drive low: %w", err))
	}
	if err := o.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close line: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
