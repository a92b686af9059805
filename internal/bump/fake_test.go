package bump

import (
	"sync"
	"testing"
)

func TestFakeMonitorPressRelease(t *testing.T) {
	m := NewFakeMonitor(nil)

	got, err := m.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 0 {
		t.Errorf("expected no switches pressed, got %06b", got)
	}

	m.Press(0)
	m.Press(5)
	got, _ = m.Read()
	if got != 0b100001 {
		t.Errorf("expected switches 0 and 5 pressed, got %06b", got)
	}

	m.Release(0)
	got, _ = m.Read()
	if got != 0b100000 {
		t.Errorf("expected only switch 5 pressed, got %06b", got)
	}
}

func TestFakeMonitorPressCallback(t *testing.T) {
	var (
		mu      sync.Mutex
		presses []int
	)
	m := NewFakeMonitor(func(sw int) {
		mu.Lock()
		presses = append(presses, sw)
		mu.Unlock()
	})

	m.Press(2)
	m.Press(3)
	m.Release(3) // releases do not fire the callback
	m.Press(3)

	mu.Lock()
	defer mu.Unlock()
	want := []int{2, 3, 3}
	if len(presses) != len(want) {
		t.Fatalf("expected %d presses, got %v", len(want), presses)
	}
	for i, w := range want {
		if presses[i] != w {
			t.Errorf("press %d: expected switch %d, got %d", i, w, presses[i])
		}
	}
}

func TestFakeMonitorClose(t *testing.T) {
	m := NewFakeMonitor(nil)
	if m.Closed() {
		t.Error("monitor should not start closed")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !m.Closed() {
		t.Error("expected monitor closed")
	}
}
