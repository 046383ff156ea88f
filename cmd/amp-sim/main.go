// Command amp-sim runs a simulated AMP board on an in-memory interrupt
// controller.
//
// The remote advertises the echo channel, the master echoes a series of
// payloads and then requests shutdown, while the PM firmware delivers the
// configured callbacks to its masters through their IPI buffers.
//
// Usage:
//
//	amp-sim [flags]
//
// Flags:
//
//	-config string        Board configuration file (default: built-in board)
//	-count int            Echo payloads to send (default from config)
//	-size int             Bytes per echo payload (default from config)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  File path for protocol event logging (CBOR format)
//	-shm string           Place the master IPI buffers in this shared memory file
//	-sync                 Deliver interrupts in the raising goroutine
//	-interactive          Start an interactive console instead of the scripted run
//	-timeout duration     Deadline for the scripted run (default 10s)
//
// Examples:
//
//	# Scripted run on the built-in board
//	amp-sim
//
//	# Capture every layer, then inspect it
//	amp-sim -protocol-log run.cbor -log-level debug
//	amp-log view run.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/loserking/embeddedsw/cmd/amp-sim/interactive"
	"github.com/loserking/embeddedsw/cmd/amp-sim/sim"
	"github.com/loserking/embeddedsw/pkg/board"
	amplog "github.com/loserking/embeddedsw/pkg/log"
)

var (
	configFile  = flag.String("config", "", "Board configuration file (default: built-in board)")
	count       = flag.Int("count", 0, "Echo payloads to send (default from config)")
	size        = flag.Int("size", 0, "Bytes per echo payload (default from config)")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	protocolLog = flag.String("protocol-log", "", "File path for protocol event logging (CBOR format)")
	shmPath     = flag.String("shm", "", "Place the master IPI buffers in this shared memory file")
	syncMode    = flag.Bool("sync", false, "Deliver interrupts in the raising goroutine")
	interact    = flag.Bool("interactive", false, "Start an interactive console instead of the scripted run")
	timeout     = flag.Duration("timeout", 10*time.Second, "Deadline for the scripted run")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	cfg, err := loadBoard(*configFile)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *count > 0 {
		cfg.Echo.Count = *count
	}
	if *size > 0 {
		cfg.Echo.Size = *size
	}

	level, err := parseLevel(*logLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var console *interactive.Console
	var out io.Writer = os.Stderr
	if *interact {
		console, err = interactive.New()
		if err != nil {
			log.Fatalf("%v", err)
		}
		out = console.Stderr()
		log.SetOutput(console.Stdout())
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	var protocolLogger amplog.Logger
	if *protocolLog != "" {
		fl, err := amplog.NewFileLogger(*protocolLog)
		if err != nil {
			log.Fatalf("Failed to create protocol logger: %v", err)
		}
		defer fl.Close()
		protocolLogger = fl
		if level <= slog.LevelDebug {
			protocolLogger = amplog.NewMultiLogger(fl, amplog.NewSlogAdapter(logger))
		}
		log.Printf("Protocol logging to: %s", *protocolLog)
	}

	s, err := sim.New(cfg, sim.Options{
		Logger:         logger,
		ProtocolLogger: protocolLogger,
		ShmPath:        *shmPath,
		SyncDelivery:   *syncMode,
	})
	if err != nil {
		log.Fatalf("Failed to build board: %v", err)
	}
	defer s.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if console != nil {
		if err := s.Start(ctx); err != nil {
			log.Fatalf("Failed to start board: %v", err)
		}
		console.Run(ctx, cancel, s)
		return
	}

	log.Printf("Echo: %d x %d bytes on %q", cfg.Echo.Count, cfg.Echo.Size, cfg.Echo.Channel)
	runCtx, runCancel := context.WithTimeout(ctx, *timeout)
	defer runCancel()

	report, err := s.Run(runCtx, cfg.Echo.Count, cfg.Echo.Size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Printf("Echoed %d messages (%d bytes) in %s", report.Messages, report.Bytes, report.Elapsed)
	log.Printf("Delivered %d PM callbacks", len(cfg.Events))
	log.Println("Board shut down cleanly")
}

func loadBoard(path string) (*board.Config, error) {
	if path == "" {
		return board.Default(), nil
	}
	return board.Load(path)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
