package mqtt

import (
	"fmt"
	"testing"
)

func msg(i int) bufferedMsg {
	return bufferedMsg{topic: Topic, payload: []byte(fmt.Sprintf("m%d", i))}
}

func TestRingBufferPushDrain(t *testing.T) {
	r := newRingBuffer(4)

	if r.len() != 0 {
		t.Errorf("expected empty buffer, len=%d", r.len())
	}
	if got := r.drainAll(); got != nil {
		t.Errorf("expected nil drain on empty buffer, got %v", got)
	}

	r.push(msg(1))
	r.push(msg(2))
	r.push(msg(3))
	if r.len() != 3 {
		t.Errorf("expected len 3, got %d", r.len())
	}

	got := r.drainAll()
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, m := range got {
		want := fmt.Sprintf("m%d", i+1)
		if string(m.payload) != want {
			t.Errorf("message %d: expected %q, got %q", i, want, m.payload)
		}
	}

	if r.len() != 0 {
		t.Errorf("expected empty buffer after drain, len=%d", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 1; i <= 5; i++ {
		r.push(msg(i))
	}
	if r.len() != 3 {
		t.Fatalf("expected len capped at 3, got %d", r.len())
	}

	got := r.drainAll()
	want := []string{"m3", "m4", "m5"}
	for i, w := range want {
		if string(got[i].payload) != w {
			t.Errorf("message %d: expected %q, got %q", i, w, got[i].payload)
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	r := newRingBuffer(2)

	r.push(msg(1))
	r.drainAll()
	r.push(msg(2))
	r.push(msg(3))

	got := r.drainAll()
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if string(got[0].payload) != "m2" || string(got[1].payload) != "m3" {
		t.Errorf("expected [m2 m3], got [%s %s]", got[0].payload, got[1].payload)
	}
}

func TestRingBufferPreservesMessageFields(t *testing.T) {
	r := newRingBuffer(2)
	r.push(bufferedMsg{topic: TopicSystem, payload: []byte("x"), qos: 1, retained: true})

	got := r.drainAll()
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	m := got[0]
	if m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("message fields not preserved: %+v", m)
	}
}
