//go:build !linux

package pinbank

import "errors"

// RealBank is not available on non-Linux platforms.
type RealBank struct{}

// NewRealBank returns an error on non-Linux platforms.
func NewRealBank(chip string, offsets []int) (*RealBank, error) {
	return nil, errors.New("pinbank: not supported on this platform (requires Linux)")
}

// SetDirection is not implemented on non-Linux platforms.
func (b *RealBank) SetDirection(mask byte, dir Direction) error {
	return errors.New("pinbank: not supported")
}

// Write is not implemented on non-Linux platforms.
func (b *RealBank) Write(mask, value byte) error {
	return errors.New("pinbank: not supported")
}

// Read is not implemented on non-Linux platforms.
func (b *RealBank) Read() (byte, error) {
	return 0, errors.New("pinbank: not supported")
}

// Close is not implemented on non-Linux platforms.
func (b *RealBank) Close() error {
	return nil
}

// RealOutput is not available on non-Linux platforms.
type RealOutput struct{}

// NewRealOutput returns an error on non-Linux platforms.
func NewRealOutput(chip string, offset int) (*RealOutput, error) {
	return nil, errors.New("pinbank: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (o *RealOutput) Set(on bool) error {
	return errors.New("pinbank: not supported")
}

// Close is not implemented on non-Linux platforms.
func (o *RealOutput) Close() error {
	return nil
}
