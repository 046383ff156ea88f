package rpmsg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// EchoServiceName is the channel name the echo service advertises.
const EchoServiceName = "rpmsg-openamp-demo-channel"

// ErrEchoMismatch indicates an echoed payload differed from what was sent.
var ErrEchoMismatch = errors.New("rpmsg: echo mismatch")

// Echo is the remote echo application. Install it as the remote device's
// ChannelHandler: it binds an endpoint on every created channel, returns
// each payload to its sender and shuts the device down on the sentinel.
type Echo struct {
	local  Addr
	logger *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once

	mu       sync.Mutex
	received int
}

// NewEcho returns an echo service binding its endpoint at local
// (AddrAny for a dynamic address).
func NewEcho(local Addr, logger *slog.Logger) *Echo {
	return &Echo{local: local, logger: logger, ready: make(chan struct{})}
}

// Ready is closed once the first echo endpoint is bound.
func (e *Echo) Ready() <-chan struct{} { return e.ready }

// OnChannelCreated binds the echo endpoint.
func (e *Echo) OnChannelCreated(ch *Channel) {
	ep, err := ch.CreateEndpoint(e.local, AddrAny, e)
	if err != nil {
		e.debugLog("echo endpoint failed", "channel", ch.Name(), "error", err)
		return
	}
	e.debugLog("echo endpoint bound", "channel", ch.Name(), "addr", ep.LocalAddr().String())
	e.readyOnce.Do(func() { close(e.ready) })
}

// OnChannelDeleted logs the deletion.
func (e *Echo) OnChannelDeleted(ch *Channel) {
	e.debugLog("echo channel deleted", "channel", ch.Name())
}

// HandleMessage echoes msg back to its source. A shutdown request deletes
// the channel and deinitialises the device instead; no acknowledgement is
// sent on the channel.
func (e *Echo) HandleMessage(ep *Endpoint, msg Message) {
	if IsShutdown(msg.Payload) {
		ch := ep.Channel()
		e.debugLog("shutdown requested", "channel", ch.Name(), "src", msg.Src.String())
		ch.Delete("shutdown requested")
		if err := ch.Device().Deinit(context.Background()); err != nil {
			e.debugLog("deinit failed", "error", err)
		}
		return
	}

	e.mu.Lock()
	e.received++
	e.mu.Unlock()
	if err := ep.SendTo(context.Background(), msg.Src, msg.Payload); err != nil {
		e.debugLog("echo send failed", "dst", msg.Src.String(), "error", err)
	}
}

// Received returns the number of data messages echoed or attempted.
func (e *Echo) Received() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.received
}

func (e *Echo) debugLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// EchoClient is the master side of the echo test. Install it as the master
// device's ChannelHandler; it binds an endpoint on the first channel
// created and then round-trips payloads through the remote.
type EchoClient struct {
	logger *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once
	ep        *Endpoint
	replies   chan []byte

	// One outstanding request at a time.
	sendMu sync.Mutex
}

// NewEchoClient returns an unbound client.
func NewEchoClient(logger *slog.Logger) *EchoClient {
	return &EchoClient{
		logger:  logger,
		ready:   make(chan struct{}),
		replies: make(chan []byte, 1),
	}
}

// Ready is closed once the client's endpoint is bound.
func (c *EchoClient) Ready() <-chan struct{} { return c.ready }

// Endpoint returns the bound endpoint, or nil before Ready.
func (c *EchoClient) Endpoint() *Endpoint {
	select {
	case <-c.ready:
		return c.ep
	default:
		return nil
	}
}

// OnChannelCreated binds the client endpoint on the first channel.
func (c *EchoClient) OnChannelCreated(ch *Channel) {
	ep, err := ch.CreateEndpoint(AddrAny, AddrAny, ReceiveFunc(c.receive))
	if err != nil {
		c.debugLog("client endpoint failed", "channel", ch.Name(), "error", err)
		return
	}
	bound := false
	c.readyOnce.Do(func() {
		c.ep = ep
		close(c.ready)
		bound = true
	})
	if !bound {
		ep.Destroy()
	}
}

// OnChannelDeleted logs the deletion.
func (c *EchoClient) OnChannelDeleted(ch *Channel) {
	c.debugLog("client channel deleted", "channel", ch.Name())
}

// Echo sends payload and waits for the reply, which must match it byte
// for byte.
func (c *EchoClient) Echo(ctx context.Context, payload []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	ep, err := c.waitReady(ctx)
	if err != nil {
		return err
	}
	// Drop a stale reply left by an abandoned request.
	select {
	case <-c.replies:
	default:
	}
	if err := ep.Send(ctx, payload); err != nil {
		return err
	}
	select {
	case reply := <-c.replies:
		if !bytes.Equal(reply, payload) {
			return fmt.Errorf("%w: sent %d bytes, received %d", ErrEchoMismatch, len(payload), len(reply))
		}
		return nil
	case <-ep.Channel().Device().Done():
		return fmt.Errorf("%w: device torn down", ErrChannelNotActive)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown sends the shutdown sentinel and waits until the remote's
// teardown has been observed and this side has deinitialised, or ctx ends.
func (c *EchoClient) Shutdown(ctx context.Context) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	ep, err := c.waitReady(ctx)
	if err != nil {
		return err
	}
	if err := ep.Send(ctx, ShutdownPayload()); err != nil {
		return err
	}
	select {
	case <-ep.Channel().Device().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *EchoClient) waitReady(ctx context.Context) (*Endpoint, error) {
	select {
	case <-c.ready:
		return c.ep, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *EchoClient) receive(_ *Endpoint, msg Message) {
	reply := append([]byte(nil), msg.Payload...)
	select {
	case c.replies <- reply:
	default:
		c.debugLog("dropping unsolicited reply", "src", msg.Src.String(), "size", msg.Len())
	}
}

func (c *EchoClient) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

var (
	_ ChannelHandler = (*Echo)(nil)
	_ ReceiveHandler = (*Echo)(nil)
	_ ChannelHandler = (*EchoClient)(nil)
)
