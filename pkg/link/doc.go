// Package link is an in-memory shared transport for rpmsg devices.
//
// A Link joins a master Port and a remote Port. Each direction is a bounded
// queue standing in for a vring. Sending copies the payload into the peer's
// queue and raises the peer's IPI; the peer's interrupt handler drains the
// whole queue, so coalesced interrupts lose nothing.
//
// Name service records travel as messages to rpmsg.NameServiceAddr in their
// wire encoding and are decoded on delivery.
package link
