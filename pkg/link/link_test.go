package link_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/link"
	"github.com/loserking/embeddedsw/pkg/rpmsg"
)

// sink records deliveries in order.
type sink struct {
	mu     sync.Mutex
	events []string
	msgs   []rpmsg.Message
}

func (s *sink) HandleMessage(msg rpmsg.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	s.events = append(s.events, fmt.Sprintf("msg %s->%s", msg.Src, msg.Dst))
}

func (s *sink) HandleAnnouncement(a rpmsg.Announcement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fmt.Sprintf("ns %s %s %s", a.Flags, a.Name, a.Addr))
}

func (s *sink) HandleTeardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, "teardown")
}

func (s *sink) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func newLink(t *testing.T, mutate ...func(*link.Config)) (*link.Link, *ipi.Bus) {
	t.Helper()
	cfg := link.DefaultConfig()
	cfg.SyncDelivery = true
	for _, m := range mutate {
		m(&cfg)
	}
	bus := ipi.NewBus()
	l, err := link.New(bus, cfg)
	require.NoError(t, err)
	return l, bus
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, link.DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*link.Config)
	}{
		{"NoMasterMask", func(c *link.Config) { c.MasterMask = 0 }},
		{"Overlap", func(c *link.Config) { c.RemoteMask = ipi.MaskAPU | ipi.MaskRPU0 }},
		{"TinyMTU", func(c *link.Config) { c.MTU = 2 }},
		{"NoQueue", func(c *link.Config) { c.QueueDepth = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := link.DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())

			_, err := link.New(ipi.NewBus(), cfg)
			assert.Error(t, err)
		})
	}
}

func TestSendDeliversInOrder(t *testing.T) {
	l, _ := newLink(t)
	rx := &sink{}
	l.Remote().Attach(rx)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Master().Send(ctx, rpmsg.Message{Src: 1024, Dst: rpmsg.Addr(5 + i), Payload: []byte{byte(i)}}))
	}
	assert.Equal(t, []string{"msg 1024->5", "msg 1024->6", "msg 1024->7"}, rx.Events())
	assert.Zero(t, l.Remote().Pending())
}

func TestSendCopiesPayload(t *testing.T) {
	l, _ := newLink(t)
	rx := &sink{}

	payload := []byte{1, 2, 3}
	require.NoError(t, l.Master().Send(context.Background(), rpmsg.Message{Src: 1, Dst: 2, Payload: payload}))
	payload[0] = 9

	l.Remote().Attach(rx)
	require.Len(t, rx.msgs, 1)
	assert.Equal(t, []byte{1, 2, 3}, rx.msgs[0].Payload)
}

func TestQueuedBeforeAttach(t *testing.T) {
	l, _ := newLink(t)
	ctx := context.Background()

	require.NoError(t, l.Remote().Announce(ctx, rpmsg.Announcement{Name: "echo", Addr: 1024, Flags: rpmsg.NSCreate}))
	require.NoError(t, l.Remote().Send(ctx, rpmsg.Message{Src: 1024, Dst: 1025}))
	assert.Equal(t, 2, l.Master().Pending())

	rx := &sink{}
	l.Master().Attach(rx)
	assert.Equal(t, []string{"ns CREATE echo 1024", "msg 1024->1025"}, rx.Events())
}

func TestSendErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("TooLarge", func(t *testing.T) {
		l, _ := newLink(t, func(c *link.Config) { c.MTU = 8 })
		err := l.Master().Send(ctx, rpmsg.Message{Payload: make([]byte, 9)})
		assert.ErrorIs(t, err, rpmsg.ErrPayloadTooLarge)
		assert.Equal(t, 8, l.Master().MTU())
	})

	t.Run("QueueFull", func(t *testing.T) {
		l, _ := newLink(t, func(c *link.Config) { c.QueueDepth = 2 })
		require.NoError(t, l.Master().Send(ctx, rpmsg.Message{}))
		require.NoError(t, l.Master().Send(ctx, rpmsg.Message{}))
		assert.ErrorIs(t, l.Master().Send(ctx, rpmsg.Message{}), link.ErrQueueFull)
	})

	t.Run("Cancelled", func(t *testing.T) {
		l, _ := newLink(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, l.Master().Send(cctx, rpmsg.Message{}), context.Canceled)
	})

	t.Run("HardwareFault", func(t *testing.T) {
		l, bus := newLink(t)
		bus.Close()
		assert.ErrorIs(t, l.Master().Send(ctx, rpmsg.Message{}), ipi.ErrHardwareFault)
	})

	t.Run("Closed", func(t *testing.T) {
		l, _ := newLink(t)
		l.Remote().Attach(&sink{})
		require.NoError(t, l.Master().Deinit(ctx))
		assert.ErrorIs(t, l.Master().Send(ctx, rpmsg.Message{}), link.ErrClosed)
		assert.ErrorIs(t, l.Master().Announce(ctx, rpmsg.Announcement{Name: "x"}), link.ErrClosed)
	})

	t.Run("BadAnnouncement", func(t *testing.T) {
		l, _ := newLink(t)
		err := l.Master().Announce(ctx, rpmsg.Announcement{Name: string(make([]byte, rpmsg.NameSize))})
		assert.ErrorIs(t, err, rpmsg.ErrNameTooLong)
	})
}

func TestDeinitTeardownFollowsMessages(t *testing.T) {
	l, _ := newLink(t, func(c *link.Config) { c.QueueDepth = 1 })
	ctx := context.Background()

	require.NoError(t, l.Remote().Send(ctx, rpmsg.Message{Src: 1024, Dst: 1025}))
	// The teardown record is admitted even though the queue is full.
	require.NoError(t, l.Remote().Deinit(ctx))
	require.NoError(t, l.Remote().Deinit(ctx))

	rx := &sink{}
	l.Master().Attach(rx)
	assert.Equal(t, []string{"msg 1024->1025", "teardown"}, rx.Events())

	// The peer already left, so closing this side queues nothing.
	require.NoError(t, l.Master().Deinit(ctx))
	assert.Zero(t, l.Remote().Pending())
}

func TestCoalescedInterruptsLoseNothing(t *testing.T) {
	cfg := link.DefaultConfig()
	l, err := link.New(ipi.NewBus(), cfg)
	require.NoError(t, err)

	var mu sync.Mutex
	got := 0
	done := make(chan struct{})
	const n = 200
	l.Remote().Attach(recvFunc(func(rpmsg.Message) {
		mu.Lock()
		got++
		if got == n {
			close(done)
		}
		mu.Unlock()
	}))

	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, l.Master().Send(ctx, rpmsg.Message{Payload: []byte{byte(i)}}))
	}
	<-done
	assert.LessOrEqual(t, l.Remote().Line().Stats().Delivered, uint64(n))
}

type recvFunc func(rpmsg.Message)

func (f recvFunc) HandleMessage(m rpmsg.Message)         { f(m) }
func (f recvFunc) HandleAnnouncement(rpmsg.Announcement) {}
func (f recvFunc) HandleTeardown()                       {}
