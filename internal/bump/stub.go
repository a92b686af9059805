//go:build !linux

package bump

import "errors"

// RealMonitor is not available on non-Linux platforms.
type RealMonitor struct{}

// NewRealMonitor returns an error on non-Linux platforms.
func NewRealMonitor(chip string, offsets []int, onPress PressFunc) (*RealMonitor, error) {
	return nil, errors.New("bump: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (m *RealMonitor) Read() (byte, error) {
	return 0, errors.New("bump: not supported")
}

// Close is not implemented on non-Linux platforms.
func (m *RealMonitor) Close() error {
	return nil
}
