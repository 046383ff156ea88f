// Package ipi models inter-processor interrupt channels.
//
// A [Line] is one local IPI channel. Raising it writes a destination mask to
// the hardware trigger register (abstracted as [Trigger]); receiving it runs
// the single registered [Handler].
//
// # Coalescing
//
// Interrupts are level-style notifications, not messages. Several raises that
// arrive before the handler runs are observed as one invocation whose source
// mask is the union of the raisers. Handlers must therefore rescan whatever
// shared state the interrupt announces instead of assuming one event per call.
//
// # Bus
//
// [Bus] is an in-memory interrupt controller for simulation and tests. It
// routes a raise to every attached line whose local mask intersects the
// destination.
package ipi
