package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func newJSONAdapter(buf *bytes.Buffer) *SlogAdapter {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogAdapter(slog.New(handler))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestSlogAdapterLogsSignalEvent(t *testing.T) {
	var buf bytes.Buffer
	newJSONAdapter(&buf).Log(Event{
		Timestamp: time.Now(),
		SessionID: "sess-1",
		Direction: DirectionOut,
		Layer:     LayerSignal,
		LocalRole: RoleFirmware,
		Signal:    &SignalEvent{Source: 0x10000, Destination: 0x1},
	})

	entry := decodeLine(t, &buf)
	if entry["layer"] != "SIGNAL" {
		t.Errorf("layer: got %v, want SIGNAL", entry["layer"])
	}
	if entry["role"] != "FIRMWARE" {
		t.Errorf("role: got %v, want FIRMWARE", entry["role"])
	}
	if entry["dst_mask"] != float64(1) {
		t.Errorf("dst_mask: got %v, want 1", entry["dst_mask"])
	}
}

func TestSlogAdapterLogsStateChange(t *testing.T) {
	var buf bytes.Buffer
	newJSONAdapter(&buf).Log(Event{
		Timestamp: time.Now(),
		Layer:     LayerChannel,
		Category:  CategoryState,
		Channel:   "rpmsg-echo",
		StateChange: &StateChangeEvent{
			Entity:   StateEntityChannel,
			OldState: "ACTIVE",
			NewState: "DELETED",
			Reason:   "shutdown request",
		},
	})

	entry := decodeLine(t, &buf)
	if entry["channel"] != "rpmsg-echo" {
		t.Errorf("channel: got %v", entry["channel"])
	}
	if entry["new_state"] != "DELETED" {
		t.Errorf("new_state: got %v, want DELETED", entry["new_state"])
	}
	if entry["reason"] != "shutdown request" {
		t.Errorf("reason: got %v", entry["reason"])
	}
}

func TestSlogAdapterSuppressedAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	NewSlogAdapter(slog.New(handler)).Log(Event{Timestamp: time.Now()})

	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}
