package rpmsg

import (
	"context"
	"fmt"
	"sync/atomic"
)

// ReceiveHandler is invoked once per message delivered to an endpoint, in
// arrival order, at the transport delivery point. It must not block.
type ReceiveHandler interface {
	HandleMessage(ep *Endpoint, msg Message)
}

// ReceiveFunc adapts a function to ReceiveHandler.
type ReceiveFunc func(ep *Endpoint, msg Message)

// HandleMessage calls f(ep, msg).
func (f ReceiveFunc) HandleMessage(ep *Endpoint, msg Message) { f(ep, msg) }

// Endpoint is an addressable send/receive point bound to a channel.
type Endpoint struct {
	ch       *Channel
	local    Addr
	remote   Addr
	handler  ReceiveHandler
	released atomic.Bool
}

// Channel returns the channel the endpoint is bound to.
func (e *Endpoint) Channel() *Channel { return e.ch }

// LocalAddr returns the endpoint address.
func (e *Endpoint) LocalAddr() Addr { return e.local }

// RemoteAddr returns the default destination. AddrAny means the channel peer.
func (e *Endpoint) RemoteAddr() Addr { return e.remote }

// Released reports whether the endpoint was destroyed or its channel deleted.
func (e *Endpoint) Released() bool { return e.released.Load() }

// Send transmits payload to the endpoint's remote address.
func (e *Endpoint) Send(ctx context.Context, payload []byte) error {
	dst := e.remote
	if dst == AddrAny {
		dst = e.ch.RemoteAddr()
	}
	return e.SendTo(ctx, dst, payload)
}

// SendTo transmits payload to dst. The payload is copied by the transport;
// the caller keeps ownership of the slice.
func (e *Endpoint) SendTo(ctx context.Context, dst Addr, payload []byte) error {
	if e.released.Load() || e.ch.State() != ChannelActive {
		return fmt.Errorf("%w: %s", ErrChannelNotActive, e.ch.name)
	}
	if mtu := e.ch.dev.transport.MTU(); len(payload) > mtu {
		return fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(payload), mtu)
	}
	return e.ch.dev.send(ctx, e.ch, Message{Src: e.local, Dst: dst, Payload: payload})
}

// Destroy releases the endpoint. The channel stays Active.
func (e *Endpoint) Destroy() {
	if e.released.Swap(true) {
		return
	}
	if e.ch.removeEndpoint(e) {
		e.ch.dev.logEndpoint(e.ch, e, "RELEASED")
	}
}

func (e *Endpoint) deliver(msg Message) {
	if e.released.Load() {
		return
	}
	e.handler.HandleMessage(e, msg)
}
