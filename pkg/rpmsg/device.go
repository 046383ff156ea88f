package rpmsg

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loserking/embeddedsw/pkg/log"
)

// Role is the side a Device plays.
type Role uint8

const (
	// RoleMaster creates channels on announcement and may request shutdown.
	RoleMaster Role = iota
	// RoleRemote advertises channels and serves requests.
	RoleRemote
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "MASTER"
	case RoleRemote:
		return "REMOTE"
	default:
		return "UNKNOWN"
	}
}

func (r Role) logRole() log.Role {
	if r == RoleMaster {
		return log.RoleMaster
	}
	return log.RoleRemote
}

// Config configures a Device.
type Config struct {
	// Handler receives channel lifecycle notifications. Nil ignores them.
	Handler ChannelHandler

	// Logger is the optional operational logger. Nil disables it.
	Logger *slog.Logger

	// ProtocolLogger captures channel traffic and state changes.
	ProtocolLogger log.Logger
}

// Device is one side's rpmsg context: the channels it knows, its transport
// and its address space. Receive paths enter through the Receiver methods.
type Device struct {
	role      Role
	transport Transport
	handler   ChannelHandler
	logger    *slog.Logger
	protocol  log.Logger
	session   string

	mu       sync.Mutex
	channels []*Channel
	nextID   uint32
	nextAddr Addr
	deinit   bool

	deinitOnce sync.Once
	deinitErr  error
	done       chan struct{}
}

// NewDevice returns a device for role running on t.
func NewDevice(role Role, t Transport, cfg Config) *Device {
	h := cfg.Handler
	if h == nil {
		h = ChannelHandlerFuncs{}
	}
	return &Device{
		role:      role,
		transport: t,
		handler:   h,
		logger:    cfg.Logger,
		protocol:  log.OrNoop(cfg.ProtocolLogger),
		session:   uuid.NewString(),
		nextAddr:  FirstDynamicAddr,
		done:      make(chan struct{}),
	}
}

// Role returns the device role.
func (d *Device) Role() Role { return d.role }

// SessionID returns the id stamped on protocol log events.
func (d *Device) SessionID() string { return d.session }

// Done is closed when this side's teardown has completed.
func (d *Device) Done() <-chan struct{} { return d.done }

// Advertise creates an Unadvertised channel with a dynamic address and
// announces it to the master. The channel becomes Created when the master
// acknowledges.
func (d *Device) Advertise(ctx context.Context, name string) (*Channel, error) {
	if d.role != RoleRemote {
		return nil, fmt.Errorf("%w: advertise on %s", ErrWrongRole, d.role)
	}
	if len(name) >= NameSize {
		return nil, fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}

	d.mu.Lock()
	if d.deinit {
		d.mu.Unlock()
		return nil, ErrDeinitialized
	}
	if d.findLocked(name) != nil {
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrChannelExists, name)
	}
	ch := newChannel(d, d.nextIDLocked(), name, d.allocAddrLocked(), AddrAny, ChannelUnadvertised)
	d.channels = append(d.channels, ch)
	d.mu.Unlock()

	d.logChannelState(ch, ChannelUnadvertised, ChannelUnadvertised, "advertise")
	if err := d.announce(ctx, Announcement{Name: name, Addr: ch.local, Flags: NSCreate}); err != nil {
		d.forget(ch)
		return nil, fmt.Errorf("rpmsg: advertise %q: %w", name, err)
	}
	return ch, nil
}

// Channel returns the live channel called name.
func (d *Device) Channel(name string) (*Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch := d.findLocked(name); ch != nil {
		return ch, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// Channels returns the channels that are not deleted.
func (d *Device) Channels() []*Channel {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Channel, 0, len(d.channels))
	for _, ch := range d.channels {
		if ch.State() != ChannelDeleted {
			out = append(out, ch)
		}
	}
	return out
}

// Deinit deletes every channel and leaves the transport. Only the first
// call acts; later calls return its result.
func (d *Device) Deinit(ctx context.Context) error {
	return d.teardown(ctx, "deinit")
}

// HandleMessage routes a data message to its endpoint. Unroutable messages
// are dropped.
func (d *Device) HandleMessage(msg Message) {
	ch := d.owner(msg.Dst)
	if ch == nil {
		d.logDrop(msg, "no channel for destination")
		return
	}
	d.logMessage(ch, log.DirectionIn, msg)
	ep := ch.route(msg.Dst)
	if ep == nil {
		d.logDrop(msg, "no endpoint for destination")
		return
	}
	ep.deliver(msg)
}

// HandleAnnouncement processes a name service record from the peer.
func (d *Device) HandleAnnouncement(a Announcement) {
	d.logControl(log.DirectionIn, a)
	switch {
	case a.Flags == NSCreate && d.role == RoleMaster:
		d.handleCreate(a)
	case a.Flags == NSAck && d.role == RoleRemote:
		d.handleAck(a)
	case a.Flags == NSDestroy:
		d.mu.Lock()
		ch := d.findLocked(a.Name)
		d.mu.Unlock()
		if ch != nil {
			ch.Delete("peer destroyed")
		}
	default:
		d.debugLog("ignoring name service record", "role", d.role.String(),
			"name", a.Name, "flags", a.Flags.String())
	}
}

// HandleTeardown completes this side's teardown after the peer left.
func (d *Device) HandleTeardown() {
	_ = d.teardown(context.Background(), "peer teardown")
}

func (d *Device) handleCreate(a Announcement) {
	d.mu.Lock()
	if d.deinit {
		d.mu.Unlock()
		return
	}
	if existing := d.findLocked(a.Name); existing != nil {
		d.mu.Unlock()
		d.debugLog("duplicate channel announcement", "name", a.Name, "addr", a.Addr.String())
		return
	}
	ch := newChannel(d, d.nextIDLocked(), a.Name, d.allocAddrLocked(), a.Addr, ChannelCreated)
	d.channels = append(d.channels, ch)
	d.mu.Unlock()

	d.logChannelState(ch, ChannelUnadvertised, ChannelCreated, "announced")
	d.handler.OnChannelCreated(ch)

	ack := Announcement{Name: a.Name, Addr: ch.LocalAddr(), Flags: NSAck}
	if err := d.announce(context.Background(), ack); err != nil {
		d.logError(err, "acknowledge "+a.Name)
	}
}

func (d *Device) handleAck(a Announcement) {
	d.mu.Lock()
	ch := d.findLocked(a.Name)
	d.mu.Unlock()
	if ch == nil || !ch.markCreated(a.Addr) {
		d.debugLog("unexpected name service ack", "name", a.Name)
		return
	}
	d.logChannelState(ch, ChannelUnadvertised, ChannelCreated, "acknowledged")
	d.handler.OnChannelCreated(ch)
}

// teardown runs once: delete the channels, leave the transport, close Done.
func (d *Device) teardown(ctx context.Context, reason string) error {
	d.deinitOnce.Do(func() {
		d.mu.Lock()
		d.deinit = true
		channels := append([]*Channel(nil), d.channels...)
		d.mu.Unlock()

		for _, ch := range channels {
			ch.Delete(reason)
		}
		if err := d.transport.Deinit(ctx); err != nil {
			d.logError(err, "transport deinit")
			d.deinitErr = fmt.Errorf("rpmsg: deinit: %w", err)
		}
		d.logDevice(reason)
		close(d.done)
	})
	return d.deinitErr
}

func (d *Device) send(ctx context.Context, ch *Channel, msg Message) error {
	if err := d.transport.Send(ctx, msg); err != nil {
		d.logError(err, "send on "+ch.name)
		return err
	}
	d.logMessage(ch, log.DirectionOut, msg)
	return nil
}

func (d *Device) announce(ctx context.Context, a Announcement) error {
	if err := d.transport.Announce(ctx, a); err != nil {
		d.logError(err, "announce "+a.Name)
		return err
	}
	d.logControl(log.DirectionOut, a)
	return nil
}

// owner returns the live channel holding addr.
func (d *Device) owner(addr Addr) *Channel {
	d.mu.Lock()
	channels := append([]*Channel(nil), d.channels...)
	d.mu.Unlock()
	for _, ch := range channels {
		if ch.owns(addr) {
			return ch
		}
	}
	return nil
}

func (d *Device) forget(ch *Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, x := range d.channels {
		if x == ch {
			d.channels = append(d.channels[:i], d.channels[i+1:]...)
			return
		}
	}
}

func (d *Device) findLocked(name string) *Channel {
	for _, ch := range d.channels {
		if ch.name == name && ch.State() != ChannelDeleted {
			return ch
		}
	}
	return nil
}

func (d *Device) nextIDLocked() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) allocAddr() Addr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.allocAddrLocked()
}

// allocAddrLocked hands out the next dynamic address not bound anywhere
// on the device.
func (d *Device) allocAddrLocked() Addr {
	for {
		a := d.nextAddr
		d.nextAddr++
		if d.nextAddr == AddrAny {
			d.nextAddr = FirstDynamicAddr
		}
		used := false
		for _, ch := range d.channels {
			if ch.owns(a) {
				used = true
				break
			}
		}
		if !used {
			return a
		}
	}
}

func (d *Device) debugLog(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

func (d *Device) event(dir log.Direction, cat log.Category, channel string) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		SessionID: d.session,
		Direction: dir,
		Layer:     log.LayerChannel,
		Category:  cat,
		LocalRole: d.role.logRole(),
		Channel:   channel,
	}
}

func (d *Device) logMessage(ch *Channel, dir log.Direction, msg Message) {
	cat := log.CategoryMessage
	if IsShutdown(msg.Payload) {
		cat = log.CategoryControl
	}
	ev := d.event(dir, cat, ch.name)
	ev.Message = log.NewMessageEvent(uint32(msg.Src), uint32(msg.Dst), msg.Payload)
	d.protocol.Log(ev)
}

func (d *Device) logControl(dir log.Direction, a Announcement) {
	ev := d.event(dir, log.CategoryControl, a.Name)
	ev.Message = &log.MessageEvent{Src: uint32(a.Addr), Dst: uint32(NameServiceAddr), Size: AnnouncementSize}
	d.protocol.Log(ev)
	d.debugLog("name service", "direction", dir.String(), "name", a.Name,
		"addr", a.Addr.String(), "flags", a.Flags.String())
}

func (d *Device) logDrop(msg Message, why string) {
	d.debugLog("dropping message", "src", msg.Src.String(), "dst", msg.Dst.String(),
		"size", msg.Len(), "reason", why)
	ev := d.event(log.DirectionIn, log.CategoryError, "")
	ev.Error = &log.ErrorEventData{
		Layer:   log.LayerChannel,
		Message: why,
		Context: fmt.Sprintf("message %s->%s", msg.Src, msg.Dst),
	}
	d.protocol.Log(ev)
}

func (d *Device) logChannelState(ch *Channel, from, to ChannelState, reason string) {
	d.debugLog("channel state", "channel", ch.name, "from", from.String(), "to", to.String(), "reason", reason)
	ev := d.event(log.DirectionIn, log.CategoryState, ch.name)
	ev.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityChannel,
		OldState: from.String(),
		NewState: to.String(),
		Reason:   reason,
	}
	d.protocol.Log(ev)
}

func (d *Device) logEndpoint(ch *Channel, ep *Endpoint, state string) {
	ev := d.event(log.DirectionIn, log.CategoryState, ch.name)
	ev.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityEndpoint,
		NewState: state,
		Reason:   "addr " + ep.local.String(),
	}
	d.protocol.Log(ev)
}

func (d *Device) logDevice(reason string) {
	ev := d.event(log.DirectionIn, log.CategoryState, "")
	ev.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityDevice,
		OldState: "RUNNING",
		NewState: "DEINITIALIZED",
		Reason:   reason,
	}
	d.protocol.Log(ev)
}

func (d *Device) logError(err error, op string) {
	d.debugLog("rpmsg error", "op", op, "error", err)
	ev := d.event(log.DirectionOut, log.CategoryError, "")
	ev.Error = &log.ErrorEventData{Layer: log.LayerChannel, Message: err.Error(), Context: op}
	d.protocol.Log(ev)
}

var _ Receiver = (*Device)(nil)
