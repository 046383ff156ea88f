package log

import (
	"sync"
	"testing"
	"time"
)

type captureLogger struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureLogger) Log(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func TestMultiLoggerFansOut(t *testing.T) {
	a, b := &captureLogger{}, &captureLogger{}
	m := NewMultiLogger(a, nil, b)

	m.Log(Event{Timestamp: time.Now(), SessionID: "x"})
	m.Log(Event{Timestamp: time.Now(), SessionID: "y"})

	if len(a.events) != 2 || len(b.events) != 2 {
		t.Fatalf("got %d and %d events, want 2 each", len(a.events), len(b.events))
	}
	if b.events[1].SessionID != "y" {
		t.Errorf("second event SessionID = %q, want y", b.events[1].SessionID)
	}
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(NoopLogger); !ok {
		t.Error("OrNoop(nil) should return NoopLogger")
	}
	c := &captureLogger{}
	if OrNoop(c) != Logger(c) {
		t.Error("OrNoop should return the given logger")
	}
}

func TestNewMessageEventTruncates(t *testing.T) {
	payload := make([]byte, MaxLogDataSize+10)
	ev := NewMessageEvent(1024, 53, payload)

	if ev.Size != len(payload) {
		t.Errorf("Size = %d, want %d", ev.Size, len(payload))
	}
	if !ev.Truncated || len(ev.Data) != MaxLogDataSize {
		t.Errorf("Truncated = %v, len(Data) = %d", ev.Truncated, len(ev.Data))
	}
}
