package interactive

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loserking/embeddedsw/cmd/amp-sim/sim"
	"github.com/loserking/embeddedsw/pkg/board"
)

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	s, err := sim.New(board.Default(), sim.Options{SyncDelivery: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	require.NoError(t, s.Start(ctx))

	var buf bytes.Buffer
	return &Console{out: &buf, sim: s}, &buf
}

func TestConsoleCommands(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"help", "suspend <master> <reason> <latency> <state> <timeout>"},
		{"echo hello world", "Echoed in"},
		{"burst 3 16", "Echoed 3 messages (48 bytes)"},
		{"status", "line firmware"},
		{"masters", "rpu0"},
		{"ack apu 7 0 2", "apu decoded PM_ACKNOWLEDGE_CB"},
		{"notify apu 22 0x1 0", "apu decoded PM_NOTIFY_CB"},
		{"suspend rpu0 201 0 0 1000", "rpu0 decoded PM_INIT_SUSPEND_CB"},
		{"suspend rpu0 201 50 0x3 1000", "rpu0 decoded PM_INIT_SUSPEND_CB [30 201 50 3 1000]"},
		{"suspend rpu0 201 1000", "Usage: suspend <master> <reason> <latency> <state> <timeout>"},
		{"notify nobody 1 1 1", "Error:"},
		{"suspend rpu0 201 0 lots 1", "Invalid number \"lots\""},
		{"burst 0 4", "must be positive"},
		{"echo", "Usage: echo"},
		{"frobnicate", "Unknown command: frobnicate"},
	}

	c, buf := newTestConsole(t)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			buf.Reset()
			assert.True(t, c.exec(context.Background(), tt.input))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestConsoleShutdown(t *testing.T) {
	c, buf := newTestConsole(t)

	assert.True(t, c.exec(context.Background(), "shutdown"))
	assert.Contains(t, buf.String(), "Remote shut down")

	buf.Reset()
	c.exec(context.Background(), "status")
	assert.Equal(t, 2, strings.Count(buf.String(), "DEINITIALIZED"))

	buf.Reset()
	c.exec(context.Background(), "echo late")
	assert.Contains(t, buf.String(), "Echo failed")
}

func TestConsoleQuit(t *testing.T) {
	c, _ := newTestConsole(t)
	for _, cmd := range []string{"quit", "exit", "Q"} {
		assert.False(t, c.exec(context.Background(), cmd))
	}
}
