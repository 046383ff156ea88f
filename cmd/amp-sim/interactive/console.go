// Package interactive provides the interactive console for amp-sim.
package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/loserking/embeddedsw/cmd/amp-sim/sim"
	"github.com/loserking/embeddedsw/pkg/pm"
)

// commandTimeout bounds each console command that waits on the board.
const commandTimeout = 5 * time.Second

// Console drives a running simulation from a readline prompt.
type Console struct {
	rl  *readline.Instance
	out io.Writer
	sim *sim.Simulation
}

// New creates a console. Call Run once the board is started.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "amp> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that coordinates with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that coordinates with the prompt.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run reads commands until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc, s *sim.Simulation) {
	defer c.rl.Close()
	c.sim = s

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if !c.exec(ctx, input) {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// exec runs one command line. It returns false when the console should exit.
func (c *Console) exec(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "echo", "e":
		c.cmdEcho(ctx, args)

	case "burst", "b":
		c.cmdBurst(ctx, args)

	case "status", "s":
		c.cmdStatus()

	case "ack":
		c.cmdAck(ctx, args)

	case "notify":
		c.cmdNotify(ctx, args)

	case "suspend":
		c.cmdSuspend(ctx, args)

	case "masters", "m":
		c.cmdMasters()

	case "shutdown":
		c.cmdShutdown(ctx)

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
AMP Simulator Commands:
  Echo channel:
    echo <text>                                           - Round-trip text through the remote
    burst <count> <size>                                  - Round-trip count payloads of size bytes
    shutdown                                              - Ask the remote to shut down
    status                                                - Show channels and interrupt counters

  PM callbacks:
    masters                                               - List PM masters
    ack <master> <node> <status> <opp>                    - Send PM_ACKNOWLEDGE_CB
    notify <master> <node> <event> <opp>                  - Send PM_NOTIFY_CB
    suspend <master> <reason> <latency> <state> <timeout> - Send PM_INIT_SUSPEND_CB

  Other:
    help                                                  - Show this help
    quit                                                  - Exit`)
}

func (c *Console) cmdEcho(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: echo <text>")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	start := time.Now()
	if err := c.sim.Echo(ctx, []byte(strings.Join(args, " "))); err != nil {
		fmt.Fprintf(c.out, "Echo failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Echoed in %s\n", time.Since(start))
}

func (c *Console) cmdBurst(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: burst <count> <size>")
		return
	}
	count, err1 := strconv.Atoi(args[0])
	size, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || count < 1 || size < 1 {
		fmt.Fprintln(c.out, "count and size must be positive integers")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	report, err := c.sim.RunEcho(ctx, count, size)
	if err != nil {
		fmt.Fprintf(c.out, "Burst failed after %d messages: %v\n", report.Messages, err)
		return
	}
	fmt.Fprintf(c.out, "Echoed %d messages (%d bytes) in %s\n", report.Messages, report.Bytes, report.Elapsed)
}

func (c *Console) cmdStatus() {
	for _, dev := range []struct {
		name string
		done <-chan struct{}
		chs  int
	}{
		{"master", c.sim.MasterDevice().Done(), len(c.sim.MasterDevice().Channels())},
		{"remote", c.sim.RemoteDevice().Done(), len(c.sim.RemoteDevice().Channels())},
	} {
		state := "RUNNING"
		select {
		case <-dev.done:
			state = "DEINITIALIZED"
		default:
		}
		fmt.Fprintf(c.out, "  %-8s %-14s channels=%d\n", dev.name, state, dev.chs)
	}

	if ch := c.sim.Channel(); ch != nil {
		fmt.Fprintf(c.out, "  channel  %s\n", ch)
	}
	fmt.Fprintf(c.out, "  echoed   %d\n", c.sim.Echoed())

	stats := c.sim.LineStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st := stats[name]
		fmt.Fprintf(c.out, "  line %-8s raised=%d notified=%d delivered=%d\n", name, st.Raised, st.Notified, st.Delivered)
	}
}

func (c *Console) cmdMasters() {
	for _, m := range c.sim.Masters().All() {
		fmt.Fprintf(c.out, "  %-12s mask=%s\n", m, m.Mask)
	}
}

func (c *Console) cmdShutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := c.sim.Shutdown(ctx); err != nil {
		fmt.Fprintf(c.out, "Shutdown failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Remote shut down")
}

func (c *Console) cmdAck(ctx context.Context, args []string) {
	if len(args) != 4 {
		fmt.Fprintln(c.out, "Usage: ack <master> <node> <status> <opp>")
		return
	}
	v, ok := c.parseWords(args[1:])
	if !ok {
		return
	}
	c.dispatch(ctx, args[0], pm.Acknowledge{NodeID: pm.NodeID(v[0]), Status: pm.Status(v[1]), OpPoint: v[2]})
}

func (c *Console) cmdNotify(ctx context.Context, args []string) {
	if len(args) != 4 {
		fmt.Fprintln(c.out, "Usage: notify <master> <node> <event> <opp>")
		return
	}
	v, ok := c.parseWords(args[1:])
	if !ok {
		return
	}
	c.dispatch(ctx, args[0], pm.Notify{NodeID: pm.NodeID(v[0]), Event: pm.NotifyEvent(v[1]), OpPoint: v[2]})
}

func (c *Console) cmdSuspend(ctx context.Context, args []string) {
	if len(args) != 5 {
		fmt.Fprintln(c.out, "Usage: suspend <master> <reason> <latency> <state> <timeout>")
		return
	}
	v, ok := c.parseWords(args[1:])
	if !ok {
		return
	}
	c.dispatch(ctx, args[0], pm.InitSuspend{
		Reason:  pm.SuspendReason(v[0]),
		Latency: v[1],
		State:   v[2],
		Timeout: v[3],
	})
}

func (c *Console) dispatch(ctx context.Context, master string, ev pm.Event) {
	m, err := c.sim.Masters().ByName(master)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	d, err := c.sim.DispatchTo(ctx, m, ev)
	if err != nil {
		fmt.Fprintf(c.out, "Dispatch failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "%s decoded %s %v\n", d.Master, d.Event.Tag(), d.Event.Words())
}

func (c *Console) parseWords(args []string) ([]uint32, bool) {
	out := make([]uint32, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 0, 32)
		if err != nil {
			fmt.Fprintf(c.out, "Invalid number %q\n", a)
			return nil, false
		}
		out[i] = uint32(v)
	}
	return out, true
}
