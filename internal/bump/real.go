//go:build linux

package bump

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealMonitor reads the bump switches from actual hardware.
type RealMonitor struct {
	chip  *gpiocdev.Chip
	lines [NumSwitches]*gpiocdev.Line
}

// NewRealMonitor requests the six switch lines as inputs with pull-ups and
// falling-edge detection. onPress (may be nil) is invoked with the switch
// index on each press, from gpiocdev's event goroutine. Unlike the original
// firmware, which shared registers between interrupt and polled contexts
// without any discipline, the event path here never touches state shared
// with Read: gpiocdev serializes line access internally.
func NewRealMonitor(chip string, offsets []int, onPress PressFunc) (*RealMonitor, error) {
	if len(offsets) != NumSwitches {
		return nil, fmt.Errorf("bump: need exactly %d line offsets, got %d", NumSwitches, len(offsets))
	}

	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}

	m := &RealMonitor{chip: c}
	for i, offset := range offsets {
		sw := i
		opts := []gpiocdev.LineReqOption{
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
		}
		if onPress != nil {
			opts = append(opts,
				gpiocdev.WithFallingEdge,
				gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
					onPress(sw)
				}),
			)
		}
		line, err := c.RequestLine(offset, opts...)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("request bump line %d (offset %d): %w", i, offset, err)
		}
		m.lines[i] = line
	}
	return m, nil
}

// Read returns the positive-logic switch states.
// Raw 0 (pulled low by a closed switch) = pressed.
func (m *RealMonitor) Read() (byte, error) {
	var result byte
	for i, line := range m.lines {
		v, err := line.Value()
		if err != nil {
			return 0, fmt.Errorf("read bump line %d: %w", i, err)
		}
		if v == 0 {
			result |= 1 << i
		}
	}
	return result, nil
}

// Close releases the lines and the chip.
func (m *RealMonitor) Close() error {
	var errs []error
	for i, line := range m.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bump line %d: %w", i, err))
		}
		m.lines[i] = nil
	}
	if m.chip != nil {
		if err := m.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		m.chip = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
