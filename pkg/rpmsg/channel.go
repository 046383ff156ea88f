package rpmsg

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ChannelState is the lifecycle state of a channel.
type ChannelState uint8

const (
	// ChannelUnadvertised is a channel the name service has not confirmed.
	ChannelUnadvertised ChannelState = iota
	// ChannelCreated is a confirmed channel without endpoints.
	ChannelCreated
	// ChannelActive is a channel with at least one bound endpoint.
	ChannelActive
	// ChannelDeleted is terminal.
	ChannelDeleted
)

// String returns the state name.
func (s ChannelState) String() string {
	switch s {
	case ChannelUnadvertised:
		return "UNADVERTISED"
	case ChannelCreated:
		return "CREATED"
	case ChannelActive:
		return "ACTIVE"
	case ChannelDeleted:
		return "DELETED"
	default:
		return "UNKNOWN"
	}
}

// ChannelHandler receives channel lifecycle notifications. Each method
// fires at most once per channel and is never called with a lock held, so
// implementations may create endpoints or send from within.
type ChannelHandler interface {
	OnChannelCreated(ch *Channel)
	OnChannelDeleted(ch *Channel)
}

// ChannelHandlerFuncs adapts optional functions to ChannelHandler.
type ChannelHandlerFuncs struct {
	Created func(ch *Channel)
	Deleted func(ch *Channel)
}

// OnChannelCreated calls f.Created if set.
func (f ChannelHandlerFuncs) OnChannelCreated(ch *Channel) {
	if f.Created != nil {
		f.Created(ch)
	}
}

// OnChannelDeleted calls f.Deleted if set.
func (f ChannelHandlerFuncs) OnChannelDeleted(ch *Channel) {
	if f.Deleted != nil {
		f.Deleted(ch)
	}
}

// Channel is a named, bidirectional logical link between master and remote.
type Channel struct {
	dev  *Device
	id   uint32
	name string

	mu        sync.Mutex
	state     ChannelState
	local     Addr
	remote    Addr
	endpoints map[Addr]*Endpoint
	order     []*Endpoint
}

func newChannel(dev *Device, id uint32, name string, local, remote Addr, state ChannelState) *Channel {
	return &Channel{
		dev:       dev,
		id:        id,
		name:      name,
		state:     state,
		local:     local,
		remote:    remote,
		endpoints: make(map[Addr]*Endpoint),
	}
}

// ID returns the device-assigned channel identity.
func (c *Channel) ID() uint32 { return c.id }

// Name returns the service name.
func (c *Channel) Name() string { return c.name }

// Device returns the device the channel belongs to.
func (c *Channel) Device() *Device { return c.dev }

// State returns the current state.
func (c *Channel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LocalAddr returns the channel's own address.
func (c *Channel) LocalAddr() Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local
}

// RemoteAddr returns the peer's channel address, or AddrAny before the
// name service exchange completes.
func (c *Channel) RemoteAddr() Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote
}

// Endpoints returns the bound endpoints in address order.
func (c *Channel) Endpoints() []*Endpoint {
	c.mu.Lock()
	eps := make([]*Endpoint, 0, len(c.endpoints))
	for _, ep := range c.endpoints {
		eps = append(eps, ep)
	}
	c.mu.Unlock()
	sort.Slice(eps, func(i, j int) bool { return eps[i].local < eps[j].local })
	return eps
}

// String returns "name[local->remote] STATE".
func (c *Channel) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%s[%s->%s] %s", c.name, c.local, c.remote, c.state)
}

// CreateEndpoint binds an endpoint at local on the channel. AddrAny
// allocates a dynamic address. remote is the default destination for
// Endpoint.Send; AddrAny means the channel peer. The first endpoint moves
// the channel to Active and becomes its default endpoint.
func (c *Channel) CreateEndpoint(local, remote Addr, h ReceiveHandler) (*Endpoint, error) {
	if h == nil {
		return nil, fmt.Errorf("rpmsg: nil receive handler")
	}
	if local == AddrAny {
		local = c.dev.allocAddr()
	}

	c.mu.Lock()
	if c.state != ChannelCreated && c.state != ChannelActive {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s is %s", ErrChannelNotActive, c.name, state)
	}
	if _, ok := c.endpoints[local]; ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s on %s", ErrAddressInUse, local, c.name)
	}
	ep := &Endpoint{ch: c, local: local, remote: remote, handler: h}
	c.endpoints[local] = ep
	c.order = append(c.order, ep)
	old := c.state
	c.state = ChannelActive
	c.mu.Unlock()

	c.dev.logEndpoint(c, ep, "BOUND")
	if old != ChannelActive {
		c.dev.logChannelState(c, old, ChannelActive, "endpoint bound")
	}
	return ep, nil
}

// Delete moves the channel to Deleted, releasing its endpoints first.
// The deleted notification fires once, and only for a channel that was
// created. Reports whether this call performed the transition.
func (c *Channel) Delete(reason string) bool {
	c.mu.Lock()
	old := c.state
	if old == ChannelDeleted {
		c.mu.Unlock()
		return false
	}
	released := c.order
	for _, ep := range released {
		ep.released.Store(true)
	}
	c.endpoints = make(map[Addr]*Endpoint)
	c.order = nil
	c.state = ChannelDeleted
	c.mu.Unlock()

	for _, ep := range released {
		c.dev.logEndpoint(c, ep, "RELEASED")
	}
	c.dev.logChannelState(c, old, ChannelDeleted, reason)
	if old != ChannelUnadvertised {
		c.dev.handler.OnChannelDeleted(c)
	}
	return true
}

// Destroy withdraws the channel: it is deleted locally and the peer is sent
// a name service destroy record.
func (c *Channel) Destroy(ctx context.Context) error {
	local := c.LocalAddr()
	if !c.Delete("destroyed") {
		return nil
	}
	return c.dev.announce(ctx, Announcement{Name: c.name, Addr: local, Flags: NSDestroy})
}

// markCreated completes the name service exchange. Reports whether the
// channel moved from Unadvertised to Created.
func (c *Channel) markCreated(remote Addr) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ChannelUnadvertised {
		return false
	}
	c.remote = remote
	c.state = ChannelCreated
	return true
}

// owns reports whether addr is the channel address or a bound endpoint.
func (c *Channel) owns(addr Addr) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ChannelDeleted {
		return false
	}
	if addr == c.local {
		return true
	}
	_, ok := c.endpoints[addr]
	return ok
}

// route returns the endpoint that receives a message for dst. A message
// for the channel's own address goes to the default endpoint.
func (c *Channel) route(dst Addr) *Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ChannelActive {
		return nil
	}
	if ep, ok := c.endpoints[dst]; ok {
		return ep
	}
	if dst == c.local && len(c.order) > 0 {
		return c.order[0]
	}
	return nil
}

func (c *Channel) removeEndpoint(ep *Endpoint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.endpoints[ep.local] != ep {
		return false
	}
	delete(c.endpoints, ep.local)
	for i, x := range c.order {
		if x == ep {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}
