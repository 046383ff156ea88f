// Package log provides structured protocol capture for the AMP messaging core.
//
// It is separate from operational logging (slog). Operational logs explain
// what a component decided; protocol capture records every interrupt, shared
// buffer write and channel transition so a run can be replayed and inspected
// after the fact.
//
// # Basic Usage
//
//	// Console during development
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// Binary capture
//	fl, _ := log.NewFileLogger("/tmp/amp.alog")
//	cfg.ProtocolLogger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Event Types
//
// Events are captured at three layers:
//   - Signal: IPI raises and deliveries (SignalEvent)
//   - Buffer: words written to or read from an IPI message buffer (BufferEvent)
//   - Channel: rpmsg messages and channel/endpoint state (MessageEvent, StateChangeEvent)
//
// Errors at any layer carry an ErrorEventData payload.
//
// # File Format
//
// Log files are a concatenation of CBOR-encoded events with integer keys
// (.alog extension). The amp-log tool views and summarises them.
package log
