package link

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/log"
	"github.com/loserking/embeddedsw/pkg/rpmsg"
)

// Link errors.
var (
	// ErrQueueFull indicates the peer has not drained its queue.
	ErrQueueFull = errors.New("link: queue full")

	// ErrClosed indicates the port has been deinitialised.
	ErrClosed = errors.New("link: port closed")
)

// Link is a master/remote port pair.
type Link struct {
	master *Port
	remote *Port
}

// New builds both ports and attaches their IPI lines to bus.
func New(bus *ipi.Bus, cfg Config) (*Link, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	toMaster := newQueue(cfg.QueueDepth)
	toRemote := newQueue(cfg.QueueDepth)

	master := newPort("master", cfg, toMaster, toRemote, cfg.RemoteMask)
	remote := newPort("remote", cfg, toRemote, toMaster, cfg.MasterMask)
	master.peer, remote.peer = remote, master

	master.line = bus.Line(cfg.MasterMask, lineOptions(cfg, log.RoleMaster)...)
	remote.line = bus.Line(cfg.RemoteMask, lineOptions(cfg, log.RoleRemote)...)
	for _, p := range []*Port{master, remote} {
		if err := p.line.OnReceive(p); err != nil {
			return nil, fmt.Errorf("link: %s line: %w", p.name, err)
		}
	}
	return &Link{master: master, remote: remote}, nil
}

func lineOptions(cfg Config, role log.Role) []ipi.Option {
	var opts []ipi.Option
	if cfg.SyncDelivery {
		opts = append(opts, ipi.WithSyncDelivery())
	}
	if cfg.ProtocolLogger != nil {
		opts = append(opts, ipi.WithProtocolLogger(cfg.ProtocolLogger, role))
	}
	return opts
}

// Master returns the master port.
func (l *Link) Master() *Port { return l.master }

// Remote returns the remote port.
func (l *Link) Remote() *Port { return l.remote }

// record is one queue entry.
type record struct {
	msg      rpmsg.Message
	teardown bool
}

// queue is a bounded FIFO.
type queue struct {
	mu    sync.Mutex
	items []record
	depth int
}

func newQueue(depth int) *queue {
	return &queue{depth: depth}
}

// push appends r. Teardown records are admitted past the bound so that a
// full queue cannot block a deinit.
func (q *queue) push(r record) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.depth && !r.teardown {
		return ErrQueueFull
	}
	q.items = append(q.items, r)
	return nil
}

func (q *queue) pop() (record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return record{}, false
	}
	r := q.items[0]
	q.items[0] = record{}
	q.items = q.items[1:]
	return r, true
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Port is one side's view of the link. It implements rpmsg.Transport.
type Port struct {
	name     string
	mtu      int
	peerMask ipi.Mask
	line     *ipi.Line
	peer     *Port
	rx       *queue
	tx       *queue
	logger   *slog.Logger

	mu       sync.Mutex
	receiver rpmsg.Receiver
	closed   bool
	peerGone bool
}

func newPort(name string, cfg Config, rx, tx *queue, peerMask ipi.Mask) *Port {
	return &Port{
		name:     name,
		mtu:      cfg.MTU,
		peerMask: peerMask,
		rx:       rx,
		tx:       tx,
		logger:   cfg.Logger,
	}
}

// Line returns the port's IPI line.
func (p *Port) Line() *ipi.Line { return p.line }

// Pending returns the number of records waiting for this port's receiver.
func (p *Port) Pending() int { return p.rx.len() }

// Attach installs the receiver. Anything already queued is delivered
// through the port's interrupt path, keeping a single delivery context.
func (p *Port) Attach(r rpmsg.Receiver) {
	p.mu.Lock()
	p.receiver = r
	p.mu.Unlock()
	if p.rx.len() > 0 {
		p.line.Notify(p.peerMask)
	}
}

// MTU returns the largest payload the port carries.
func (p *Port) MTU() int { return p.mtu }

// Send copies msg into the peer's queue and raises the peer.
func (p *Port) Send(ctx context.Context, msg rpmsg.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.Payload) > p.mtu {
		return fmt.Errorf("%w: %d > %d bytes", rpmsg.ErrPayloadTooLarge, len(msg.Payload), p.mtu)
	}
	msg.Payload = append([]byte(nil), msg.Payload...)
	return p.post(record{msg: msg})
}

// Announce sends a to the peer's name service.
func (p *Port) Announce(ctx context.Context, a rpmsg.Announcement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := a.Marshal()
	if err != nil {
		return err
	}
	return p.post(record{msg: rpmsg.Message{Src: a.Addr, Dst: rpmsg.NameServiceAddr, Payload: data}})
}

// Deinit closes the port. Unless the peer already left, a teardown record
// is queued behind everything sent so far and the peer is raised.
func (p *Port) Deinit(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	gone := p.peerGone
	p.mu.Unlock()

	if gone {
		p.debugLog("port closed after peer teardown")
		return nil
	}
	if err := p.tx.push(record{teardown: true}); err != nil {
		return err
	}
	if err := p.line.Raise(p.peerMask); err != nil {
		return fmt.Errorf("link: %s teardown: %w", p.name, err)
	}
	p.debugLog("port closed")
	return nil
}

// HandleIPI drains the receive queue when the peer raised this line.
func (p *Port) HandleIPI(src ipi.Mask) {
	if !src.Has(p.peerMask) {
		return
	}
	p.drain()
}

func (p *Port) post(r record) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err := p.tx.push(r); err != nil {
		return err
	}
	if err := p.line.Raise(p.peerMask); err != nil {
		return fmt.Errorf("link: %s raise: %w", p.name, err)
	}
	return nil
}

// drain delivers queued records in order. It only runs from the line's
// handler, which the line never invokes concurrently. Records stay queued
// until a receiver is attached.
func (p *Port) drain() {
	p.mu.Lock()
	r := p.receiver
	p.mu.Unlock()
	if r == nil {
		return
	}

	for {
		rec, ok := p.rx.pop()
		if !ok {
			return
		}
		switch {
		case rec.teardown:
			p.mu.Lock()
			p.peerGone = true
			p.mu.Unlock()
			r.HandleTeardown()
		case rec.msg.Dst == rpmsg.NameServiceAddr:
			a, err := rpmsg.ParseAnnouncement(rec.msg.Payload)
			if err != nil {
				p.debugLog("dropping name service record", "error", err)
				continue
			}
			r.HandleAnnouncement(a)
		default:
			r.HandleMessage(rec.msg)
		}
	}
}

func (p *Port) debugLog(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, append([]any{"port", p.name}, args...)...)
	}
}

var (
	_ rpmsg.Transport = (*Port)(nil)
	_ ipi.Handler     = (*Port)(nil)
)
