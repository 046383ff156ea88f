package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.alog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, event)
	}
}

func TestReaderIteratesEventsInOrder(t *testing.T) {
	path := createTestLogFile(t, []Event{
		{Timestamp: time.Now(), SessionID: "s-1", Layer: LayerSignal},
		{Timestamp: time.Now(), SessionID: "s-2", Layer: LayerBuffer},
		{Timestamp: time.Now(), SessionID: "s-3", Layer: LayerChannel},
	})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].SessionID != "s-1" || events[2].SessionID != "s-3" {
		t.Errorf("unexpected order: %q ... %q", events[0].SessionID, events[2].SessionID)
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestFilteredReader(t *testing.T) {
	base := time.Now()
	path := createTestLogFile(t, []Event{
		{Timestamp: base, LocalRole: RoleMaster, Layer: LayerChannel, Category: CategoryMessage, Channel: "rpmsg-echo"},
		{Timestamp: base.Add(time.Second), LocalRole: RoleRemote, Layer: LayerChannel, Category: CategoryState, Channel: "rpmsg-echo"},
		{Timestamp: base.Add(2 * time.Second), LocalRole: RoleFirmware, Layer: LayerBuffer, Category: CategoryMessage},
		{Timestamp: base.Add(3 * time.Second), LocalRole: RoleFirmware, Layer: LayerSignal, Category: CategoryMessage},
	})

	role := RoleFirmware
	layer := LayerChannel
	state := CategoryState
	end := base.Add(2 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 4},
		{"Role", Filter{Role: &role}, 2},
		{"Layer", Filter{Layer: &layer}, 2},
		{"Category", Filter{Category: &state}, 1},
		{"Channel", Filter{Channel: "rpmsg-echo"}, 2},
		{"TimeEnd", Filter{TimeEnd: &end}, 2},
		{"Combined", Filter{Role: &role, TimeStart: &end}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			if got := len(readAll(t, reader)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}
