package pm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/ipibuf"
	"github.com/loserking/embeddedsw/pkg/log"
)

// Raiser raises an IPI. Implemented by *ipi.Line.
type Raiser interface {
	Raise(dst ipi.Mask) error
}

// Config configures a Dispatcher.
type Config struct {
	// Logger is the optional operational logger. Nil disables it.
	Logger *slog.Logger

	// ProtocolLogger captures buffer writes. Nil disables capture.
	ProtocolLogger log.Logger
}

// Dispatcher sends callbacks from the PM firmware to masters.
type Dispatcher struct {
	raiser   Raiser
	logger   *slog.Logger
	protocol log.Logger
	session  string
}

// NewDispatcher returns a dispatcher raising through r (normally the
// firmware's own IPI line).
func NewDispatcher(r Raiser, cfg Config) (*Dispatcher, error) {
	if r == nil {
		return nil, errors.New("pm: nil raiser")
	}
	return &Dispatcher{
		raiser:   r,
		logger:   cfg.Logger,
		protocol: log.OrNoop(cfg.ProtocolLogger),
		session:  uuid.NewString(),
	}, nil
}

// Acknowledge sends PM_ACKNOWLEDGE_CB to m. m is not blocked waiting for it;
// it learns the outcome through its IPI handler.
func (d *Dispatcher) Acknowledge(m *Master, node NodeID, status Status, opPoint uint32) error {
	return d.Dispatch(m, Acknowledge{NodeID: node, Status: status, OpPoint: opPoint})
}

// Notify sends PM_NOTIFY_CB to m.
func (d *Dispatcher) Notify(m *Master, node NodeID, event NotifyEvent, opPoint uint32) error {
	return d.Dispatch(m, Notify{NodeID: node, Event: event, OpPoint: opPoint})
}

// InitSuspend sends PM_INIT_SUSPEND_CB to m.
func (d *Dispatcher) InitSuspend(m *Master, reason SuspendReason, latency, state, timeout uint32) error {
	if m != nil {
		d.debugLog("init suspend", "master", m.String(),
			"reason", reason.String(), "latency", latency, "state", state, "timeout", timeout)
	}
	return d.Dispatch(m, InitSuspend{Reason: reason, Latency: latency, State: state, Timeout: timeout})
}

// Dispatch writes ev into m's request buffer and then raises one IPI to m.
// The raise is never issued before the write has completed. A raise
// failure is returned as is; there is no retry.
func (d *Dispatcher) Dispatch(m *Master, ev Event) error {
	if m == nil || m.Buffer == nil {
		return ErrNoMaster
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	words := ev.Words()
	m.Buffer.WriteRequest(words...)
	d.protocol.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: d.session,
		Direction: log.DirectionOut,
		Layer:     log.LayerBuffer,
		Category:  log.CategoryMessage,
		LocalRole: log.RoleFirmware,
		Buffer: &log.BufferEvent{
			Node:   uint32(m.NodeID),
			Offset: ipibuf.RequestOffset,
			Words:  words,
		},
	})

	if err := d.raiser.Raise(m.Mask); err != nil {
		d.debugLog("callback raise failed", "master", m.String(), "tag", ev.Tag().String(), "error", err)
		return fmt.Errorf("pm: %s to %s: %w", ev.Tag(), m, err)
	}
	d.debugLog("callback sent", "master", m.String(), "tag", ev.Tag().String())
	return nil
}

func (d *Dispatcher) debugLog(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
