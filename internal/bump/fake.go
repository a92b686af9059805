package bump

import "sync"

// FakeMonitor is a test double for the bump switch bank. Press and Release
// may be called from any goroutine, mirroring the asynchronous edge events
// of the real hardware.
type FakeMonitor struct {
	mu     sync.Mutex
	mask   byte
	closed bool

	// ReadError, if set, will be returned by Read.
	ReadError error

	onPress PressFunc
}

// NewFakeMonitor creates a FakeMonitor delivering presses to onPress
// (may be nil).
func NewFakeMonitor(onPress PressFunc) *FakeMonitor {
	return &FakeMonitor{onPress: onPress}
}

// Read returns the current positive-logic switch states.
func (f *FakeMonitor) Read() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	return f.mask, nil
}

// Press closes switch sw and fires the press callback, like a falling edge.
func (f *FakeMonitor) Press(sw int) {
	f.mu.Lock()
	f.mask |= 1 << sw
	cb := f.onPress
	f.mu.Unlock()
	if cb != nil {
		cb(sw)
	}
}

// Release opens switch sw. No callback; the hardware only watches falling
// edges.
func (f *FakeMonitor) Release(sw int) {
	f.mu.Lock()
	f.mask &^= 1 << sw
	f.mu.Unlock()
}

// Close marks the monitor as closed.
func (f *FakeMonitor) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakeMonitor) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
