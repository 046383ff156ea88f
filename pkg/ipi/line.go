package ipi

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/loserking/embeddedsw/pkg/log"
)

// IPI errors.
var (
	// ErrHardwareFault indicates the trigger register is unavailable.
	ErrHardwareFault = errors.New("ipi: hardware fault")

	// ErrHandlerRegistered indicates a handler is already installed on the line.
	ErrHandlerRegistered = errors.New("ipi: handler already registered")
)

// Trigger is the hardware trigger register of one IPI channel.
// Writing a destination mask raises an interrupt at every destination.
type Trigger interface {
	Trigger(dst Mask) error
}

// TriggerFunc adapts a function to Trigger.
type TriggerFunc func(dst Mask) error

// Trigger calls f(dst).
func (f TriggerFunc) Trigger(dst Mask) error { return f(dst) }

// Handler receives interrupts. HandleIPI must not block and must tolerate
// coalesced delivery: src is the union of every raiser since the last call.
type Handler interface {
	HandleIPI(src Mask)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(src Mask)

// HandleIPI calls f(src).
func (f HandlerFunc) HandleIPI(src Mask) { f(src) }

// Stats are cumulative line counters.
type Stats struct {
	Raised    uint64
	Notified  uint64
	Delivered uint64
}

// Option configures a Line.
type Option func(*Line)

// WithSyncDelivery runs the handler in the notifying goroutine, modelling
// delivery in interrupt context. The default defers delivery to a goroutine.
func WithSyncDelivery() Option {
	return func(l *Line) { l.sync = true }
}

// WithProtocolLogger records raises and deliveries.
func WithProtocolLogger(logger log.Logger, role log.Role) Option {
	return func(l *Line) {
		l.logger = log.OrNoop(logger)
		l.role = role
	}
}

// WithSessionID sets the session id stamped on protocol log events.
func WithSessionID(id string) Option {
	return func(l *Line) { l.session = id }
}

// Line is one local IPI channel.
type Line struct {
	local   Mask
	trigger Trigger
	sync    bool

	mu      sync.Mutex
	handler Handler

	pending atomic.Uint32
	running atomic.Bool

	raised    atomic.Uint64
	notified  atomic.Uint64
	delivered atomic.Uint64

	logger  log.Logger
	role    log.Role
	session string
}

// NewLine returns a line for the local channel mask raising through trigger.
func NewLine(local Mask, trigger Trigger, opts ...Option) *Line {
	l := &Line{
		local:   local,
		trigger: trigger,
		logger:  log.NoopLogger{},
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Local returns the line's own channel mask.
func (l *Line) Local() Mask {
	return l.local
}

// Raise interrupts every channel in dst. The interrupt is delivered
// asynchronously and cannot be withdrawn.
func (l *Line) Raise(dst Mask) error {
	if dst == 0 {
		return fmt.Errorf("%w: empty destination mask", ErrHardwareFault)
	}
	if l.trigger == nil {
		return fmt.Errorf("%w: no trigger register for %s", ErrHardwareFault, l.local)
	}
	if err := l.trigger.Trigger(dst); err != nil {
		l.logError(err, "raise "+dst.String())
		if errors.Is(err, ErrHardwareFault) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	l.raised.Add(1)
	l.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: l.session,
		Direction: log.DirectionOut,
		Layer:     log.LayerSignal,
		Category:  log.CategoryMessage,
		LocalRole: l.role,
		Signal:    &log.SignalEvent{Source: uint32(l.local), Destination: uint32(dst)},
	})
	return nil
}

// OnReceive installs the line's handler. Exactly one handler may be
// registered; interrupts that arrived earlier are delivered now.
func (l *Line) OnReceive(h Handler) error {
	if h == nil {
		return errors.New("ipi: nil handler")
	}
	l.mu.Lock()
	if l.handler != nil {
		l.mu.Unlock()
		return ErrHandlerRegistered
	}
	l.handler = h
	l.mu.Unlock()

	if l.pending.Load() != 0 {
		l.schedule()
	}
	return nil
}

// Notify is called by the interrupt source when src raised this line.
func (l *Line) Notify(src Mask) {
	l.notified.Add(1)
	l.pending.Or(uint32(src))
	l.schedule()
}

// Stats returns the line counters.
func (l *Line) Stats() Stats {
	return Stats{
		Raised:    l.raised.Load(),
		Notified:  l.notified.Load(),
		Delivered: l.delivered.Load(),
	}
}

func (l *Line) loadHandler() Handler {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handler
}

func (l *Line) schedule() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	if l.sync {
		l.drain()
		return
	}
	go l.drain()
}

// drain delivers accumulated sources until none remain. Only one drain runs
// per line; notifications arriving meanwhile fold into the pending mask.
func (l *Line) drain() {
	for {
		if h := l.loadHandler(); h != nil {
			if src := Mask(l.pending.Swap(0)); src != 0 {
				l.delivered.Add(1)
				l.logger.Log(log.Event{
					Timestamp: time.Now(),
					SessionID: l.session,
					Direction: log.DirectionIn,
					Layer:     log.LayerSignal,
					Category:  log.CategoryMessage,
					LocalRole: l.role,
					Signal:    &log.SignalEvent{Source: uint32(src), Destination: uint32(l.local)},
				})
				h.HandleIPI(src)
				continue
			}
		}

		l.running.Store(false)
		if l.pending.Load() == 0 || l.loadHandler() == nil {
			return
		}
		if !l.running.CompareAndSwap(false, true) {
			return
		}
	}
}

func (l *Line) logError(err error, context string) {
	l.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: l.session,
		Direction: log.DirectionOut,
		Layer:     log.LayerSignal,
		Category:  log.CategoryError,
		LocalRole: l.role,
		Error: &log.ErrorEventData{
			Layer:   log.LayerSignal,
			Message: err.Error(),
			Context: context,
		},
	})
}
