// Package sim runs a simulated AMP board: an rpmsg master and remote on a
// shared link, and PM firmware calling back into its masters, all on one
// in-memory interrupt controller.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/loserking/embeddedsw/pkg/board"
	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/ipibuf"
	"github.com/loserking/embeddedsw/pkg/link"
	"github.com/loserking/embeddedsw/pkg/log"
	"github.com/loserking/embeddedsw/pkg/pm"
	"github.com/loserking/embeddedsw/pkg/rpmsg"
)

// ErrCallbackMismatch indicates a master decoded something other than what
// the firmware dispatched.
var ErrCallbackMismatch = errors.New("sim: callback mismatch")

// Options configures a Simulation.
type Options struct {
	// Logger is the operational logger. Nil discards.
	Logger *slog.Logger

	// ProtocolLogger captures every layer. Nil disables capture.
	ProtocolLogger log.Logger

	// ShmPath places the master buffers in a shared memory file.
	ShmPath string

	// SyncDelivery runs interrupt handlers in the raising goroutine.
	SyncDelivery bool
}

// Report summarises an echo run.
type Report struct {
	Messages int
	Bytes    int
	Elapsed  time.Duration
}

// Delivery is one callback decoded by a master.
type Delivery struct {
	Master string
	Event  pm.Event
}

const inboxDepth = 4

// inbox holds the callbacks one master has decoded.
type inbox struct {
	mu     sync.Mutex // held for a whole dispatch
	events chan pm.Event
}

// drain empties the inbox and returns how many events it held.
func (in *inbox) drain() int {
	for n := 0; ; n++ {
		select {
		case <-in.events:
		default:
			return n
		}
	}
}

// Simulation is one simulated board.
type Simulation struct {
	cfg    *board.Config
	logger *slog.Logger

	bus    *ipi.Bus
	link   *link.Link
	master *rpmsg.Device
	remote *rpmsg.Device
	client *rpmsg.EchoClient
	echo   *rpmsg.Echo

	firmware   *ipi.Line
	dispatcher *pm.Dispatcher
	masters    *pm.MasterTable
	inboxes    map[string]*inbox
	region     io.Closer

	mu      sync.Mutex
	channel *rpmsg.Channel
}

// New builds the board described by cfg. Nothing runs until Start.
func New(cfg *board.Config, opts Options) (*Simulation, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Simulation{
		cfg:        cfg,
		logger:     logger,
		bus:     ipi.NewBus(),
		inboxes: make(map[string]*inbox),
	}

	lc, err := cfg.LinkConfig()
	if err != nil {
		return nil, err
	}
	lc.SyncDelivery = opts.SyncDelivery
	lc.Logger = logger
	lc.ProtocolLogger = opts.ProtocolLogger
	if s.link, err = link.New(s.bus, lc); err != nil {
		return nil, err
	}

	echoAddr, err := cfg.EchoAddr()
	if err != nil {
		return nil, err
	}
	s.client = rpmsg.NewEchoClient(logger.With("app", "echo-client"))
	s.echo = rpmsg.NewEcho(echoAddr, logger.With("app", "echo"))
	s.master = rpmsg.NewDevice(rpmsg.RoleMaster, s.link.Master(), rpmsg.Config{
		Handler:        s.client,
		Logger:         logger.With("role", "master"),
		ProtocolLogger: opts.ProtocolLogger,
	})
	s.remote = rpmsg.NewDevice(rpmsg.RoleRemote, s.link.Remote(), rpmsg.Config{
		Handler:        s.echo,
		Logger:         logger.With("role", "remote"),
		ProtocolLogger: opts.ProtocolLogger,
	})

	if err := s.buildFirmware(opts); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Simulation) buildFirmware(opts Options) error {
	var lineOpts []ipi.Option
	if opts.SyncDelivery {
		lineOpts = append(lineOpts, ipi.WithSyncDelivery())
	}

	fwOpts := append([]ipi.Option(nil), lineOpts...)
	masterOpts := append([]ipi.Option(nil), lineOpts...)
	if opts.ProtocolLogger != nil {
		fwOpts = append(fwOpts, ipi.WithProtocolLogger(opts.ProtocolLogger, log.RoleFirmware))
		masterOpts = append(masterOpts, ipi.WithProtocolLogger(opts.ProtocolLogger, log.RoleMaster))
	}
	fwMask := s.cfg.FirmwareMask()
	s.firmware = s.bus.Line(fwMask, fwOpts...)
	d, err := pm.NewDispatcher(s.firmware, pm.Config{
		Logger:         s.logger.With("role", "firmware"),
		ProtocolLogger: opts.ProtocolLogger,
	})
	if err != nil {
		return err
	}
	s.dispatcher = d

	var buffers func(int) ([]byte, error)
	path := opts.ShmPath
	if path == "" {
		path = s.cfg.Firmware.ShmPath
	}
	if path != "" {
		region, fn, err := mapBuffers(path, s.cfg.BufferCount()*ipibuf.BufferSize)
		if err != nil {
			return err
		}
		s.region = region
		buffers = fn
		s.logger.Info("IPI buffers in shared memory", "path", path)
	}

	masters, err := s.cfg.MasterTable(buffers)
	if err != nil {
		return err
	}
	s.masters = masters

	for _, m := range masters.All() {
		name := m.Name
		in := &inbox{events: make(chan pm.Event, inboxDepth)}
		s.inboxes[name] = in
		rx, err := pm.NewReceiver(m.Buffer, fwMask, func(ev pm.Event) {
			select {
			case in.events <- ev:
			default:
				s.logger.Warn("callback delivery dropped", "master", name, "tag", ev.Tag().String())
			}
		})
		if err != nil {
			return fmt.Errorf("sim: master %s: %w", name, err)
		}
		rx.OnError(func(err error) {
			s.logger.Warn("undecodable callback", "master", name, "error", err)
		})
		if err := s.bus.Line(m.Mask, masterOpts...).OnReceive(rx); err != nil {
			return fmt.Errorf("sim: master %s: %w", name, err)
		}
	}
	return nil
}

// Start attaches both devices, advertises the echo channel and waits until
// both echo endpoints are bound.
func (s *Simulation) Start(ctx context.Context) error {
	s.link.Master().Attach(s.master)
	s.link.Remote().Attach(s.remote)

	ch, err := s.remote.Advertise(ctx, s.cfg.Echo.Channel)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.channel = ch
	s.mu.Unlock()

	for _, ready := range []<-chan struct{}{s.client.Ready(), s.echo.Ready()} {
		select {
		case <-ready:
		case <-ctx.Done():
			return fmt.Errorf("sim: waiting for echo endpoints: %w", ctx.Err())
		}
	}
	s.logger.Info("echo channel up", "channel", ch.String())
	return nil
}

// Echo round-trips one payload.
func (s *Simulation) Echo(ctx context.Context, payload []byte) error {
	return s.client.Echo(ctx, payload)
}

// RunEcho round-trips count payloads of size bytes.
func (s *Simulation) RunEcho(ctx context.Context, count, size int) (Report, error) {
	start := time.Now()
	var r Report
	for i := 0; i < count; i++ {
		payload := make([]byte, size)
		for j := range payload {
			payload[j] = byte(i + j)
		}
		if err := s.client.Echo(ctx, payload); err != nil {
			return r, fmt.Errorf("sim: echo %d: %w", i, err)
		}
		r.Messages++
		r.Bytes += size
	}
	r.Elapsed = time.Since(start)
	return r, nil
}

// Shutdown sends the shutdown request and waits for both sides to finish.
func (s *Simulation) Shutdown(ctx context.Context) error {
	if err := s.client.Shutdown(ctx); err != nil {
		return fmt.Errorf("sim: shutdown: %w", err)
	}
	select {
	case <-s.remote.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch sends one configured callback and waits for its master to
// decode it.
func (s *Simulation) Dispatch(ctx context.Context, ec board.EventConfig) (Delivery, error) {
	ev, err := ec.PMEvent()
	if err != nil {
		return Delivery{}, err
	}
	m, err := s.masters.ByName(ec.Master)
	if err != nil {
		return Delivery{}, err
	}
	return s.DispatchTo(ctx, m, ev)
}

// DispatchTo sends ev to m and waits for m to decode it. Callbacks to one
// master are serialized; a decode left over from an abandoned dispatch is
// discarded first. A master without a receiver never answers, so only ctx
// ends the wait.
func (s *Simulation) DispatchTo(ctx context.Context, m *pm.Master, ev pm.Event) (Delivery, error) {
	if m == nil {
		return Delivery{}, pm.ErrNoMaster
	}
	var events <-chan pm.Event
	if in := s.inboxes[m.Name]; in != nil {
		in.mu.Lock()
		defer in.mu.Unlock()
		if n := in.drain(); n > 0 {
			s.logger.Debug("discarded stale callbacks", "master", m.Name, "count", n)
		}
		events = in.events
	}

	if err := s.dispatcher.Dispatch(m, ev); err != nil {
		return Delivery{}, err
	}
	select {
	case got := <-events:
		d := Delivery{Master: m.Name, Event: got}
		if got != ev {
			return d, fmt.Errorf("%w: sent %+v, decoded %+v", ErrCallbackMismatch, ev, got)
		}
		return d, nil
	case <-ctx.Done():
		return Delivery{}, ctx.Err()
	}
}

// RunCallbacks dispatches every configured callback in order.
func (s *Simulation) RunCallbacks(ctx context.Context) error {
	for i, ec := range s.cfg.Events {
		d, err := s.Dispatch(ctx, ec)
		if err != nil {
			return fmt.Errorf("sim: callback %d: %w", i, err)
		}
		s.logger.Info("callback delivered", "master", d.Master, "tag", d.Event.Tag().String(), "words", d.Event.Words())
	}
	return nil
}

// Run starts the board, then runs the echo test with shutdown and the PM
// callbacks concurrently.
func (s *Simulation) Run(ctx context.Context, count, size int) (Report, error) {
	if err := s.Start(ctx); err != nil {
		return Report{}, err
	}

	var report Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.RunEcho(gctx, count, size)
		report = r
		if err != nil {
			return err
		}
		return s.Shutdown(gctx)
	})
	g.Go(func() error {
		return s.RunCallbacks(gctx)
	})
	err := g.Wait()
	return report, err
}

// Masters returns the firmware's master table.
func (s *Simulation) Masters() *pm.MasterTable { return s.masters }

// Channel returns the remote's echo channel once started.
func (s *Simulation) Channel() *rpmsg.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// MasterDevice returns the rpmsg master.
func (s *Simulation) MasterDevice() *rpmsg.Device { return s.master }

// RemoteDevice returns the rpmsg remote.
func (s *Simulation) RemoteDevice() *rpmsg.Device { return s.remote }

// Echoed returns how many payloads the remote has echoed.
func (s *Simulation) Echoed() int { return s.echo.Received() }

// LineStats returns the interrupt counters of the link and firmware lines.
func (s *Simulation) LineStats() map[string]ipi.Stats {
	return map[string]ipi.Stats{
		"master":   s.link.Master().Line().Stats(),
		"remote":   s.link.Remote().Line().Stats(),
		"firmware": s.firmware.Stats(),
	}
}

// Close powers the board down.
func (s *Simulation) Close() error {
	s.bus.Close()
	if s.region != nil {
		return s.region.Close()
	}
	return nil
}
