package sim_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loserking/embeddedsw/cmd/amp-sim/sim"
	"github.com/loserking/embeddedsw/pkg/board"
	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/ipibuf"
	"github.com/loserking/embeddedsw/pkg/pm"
	"github.com/loserking/embeddedsw/pkg/rpmsg"
)

func newSim(t *testing.T, opts sim.Options) *sim.Simulation {
	t.Helper()
	s, err := sim.New(board.Default(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRun(t *testing.T) {
	for _, syncDelivery := range []bool{true, false} {
		name := "Deferred"
		if syncDelivery {
			name = "Sync"
		}
		t.Run(name, func(t *testing.T) {
			s := newSim(t, sim.Options{SyncDelivery: syncDelivery})

			report, err := s.Run(testContext(t), 12, 48)
			require.NoError(t, err)

			assert.Equal(t, 12, report.Messages)
			assert.Equal(t, 12*48, report.Bytes)
			assert.Equal(t, 12, s.Echoed())

			select {
			case <-s.RemoteDevice().Done():
			default:
				t.Fatal("remote still running after shutdown")
			}
			select {
			case <-s.MasterDevice().Done():
			default:
				t.Fatal("master still running after shutdown")
			}
			assert.Equal(t, rpmsg.ChannelDeleted, s.Channel().State())
		})
	}
}

func TestEchoAfterShutdownFails(t *testing.T) {
	s := newSim(t, sim.Options{SyncDelivery: true})
	ctx := testContext(t)

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Echo(ctx, []byte("ping")))
	require.NoError(t, s.Shutdown(ctx))

	assert.ErrorIs(t, s.Echo(ctx, []byte("ping")), rpmsg.ErrChannelNotActive)
}

func TestStartTwiceFails(t *testing.T) {
	s := newSim(t, sim.Options{SyncDelivery: true})
	ctx := testContext(t)

	require.NoError(t, s.Start(ctx))
	assert.ErrorIs(t, s.Start(ctx), rpmsg.ErrChannelExists)
}

func TestDispatchDecodedByMaster(t *testing.T) {
	s := newSim(t, sim.Options{})
	ctx := testContext(t)

	rpu, err := s.Masters().ByName("rpu0")
	require.NoError(t, err)

	ev := pm.InitSuspend{Reason: pm.SuspendReasonSystemShutdown, State: 3, Timeout: 250}
	d, err := s.DispatchTo(ctx, rpu, ev)
	require.NoError(t, err)
	assert.Equal(t, "rpu0", d.Master)
	assert.Equal(t, pm.Event(ev), d.Event)
	assert.Equal(t, ev.Words(), rpu.Buffer.ReadRequest(5))
}

func TestDispatchConfiguredEvents(t *testing.T) {
	s := newSim(t, sim.Options{SyncDelivery: true})
	ctx := testContext(t)

	cfg := board.Default()
	for _, ec := range cfg.Events {
		want, err := ec.PMEvent()
		require.NoError(t, err)

		d, err := s.Dispatch(ctx, ec)
		require.NoError(t, err)
		assert.Equal(t, ec.Master, d.Master)
		assert.Equal(t, want, d.Event)
	}
}

func TestDispatchUnknownMaster(t *testing.T) {
	s := newSim(t, sim.Options{SyncDelivery: true})

	_, err := s.Dispatch(testContext(t), board.EventConfig{Master: "nobody", Type: board.EventNotify})
	assert.ErrorIs(t, err, pm.ErrNoMaster)
}

func TestDispatchUnanswered(t *testing.T) {
	s := newSim(t, sim.Options{SyncDelivery: true})

	// Nothing listens on RPU1, so the interrupt is lost.
	ghost := &pm.Master{Name: "ghost", NodeID: pm.NodeRPU1, Buffer: ipibuf.Alloc(), Mask: ipi.MaskRPU1}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.DispatchTo(ctx, ghost, pm.Notify{NodeID: pm.NodeAPU})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatchAfterAbandonedCallback(t *testing.T) {
	s := newSim(t, sim.Options{SyncDelivery: true})
	ctx := testContext(t)

	rpu, err := s.Masters().ByName("rpu0")
	require.NoError(t, err)

	abandoned, cancel := context.WithCancel(ctx)
	cancel()
	for i := uint32(0); i < 16; i++ {
		// The master decodes this one, but nobody may be waiting for it.
		stale := pm.InitSuspend{Reason: pm.SuspendReasonPowerUnitRequest, Timeout: i}
		_, err := s.DispatchTo(abandoned, rpu, stale)
		if err != nil {
			require.ErrorIs(t, err, context.Canceled)
		}

		next := pm.Notify{NodeID: pm.NodeAPU, OpPoint: i}
		d, err := s.DispatchTo(ctx, rpu, next)
		require.NoError(t, err)
		assert.Equal(t, pm.Event(next), d.Event)
	}
}

func TestSharedMemoryBuffers(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shared memory buffers need a unix host")
	}
	path := filepath.Join(t.TempDir(), "ipi.shm")
	s := newSim(t, sim.Options{ShmPath: path, SyncDelivery: true})

	ctx := testContext(t)
	for _, ec := range board.Default().Events {
		_, err := s.Dispatch(ctx, ec)
		require.NoError(t, err)
	}
	assert.FileExists(t, path)
}

func TestEchoAfterRemoteTeardown(t *testing.T) {
	s := newSim(t, sim.Options{SyncDelivery: true})
	ctx := testContext(t)
	require.NoError(t, s.Start(ctx))

	s.RemoteDevice().HandleTeardown()

	report, err := s.RunEcho(ctx, 4, 8)
	assert.ErrorIs(t, err, rpmsg.ErrChannelNotActive)
	assert.Zero(t, report.Messages)
}
