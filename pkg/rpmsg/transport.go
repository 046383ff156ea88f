package rpmsg

import "context"

// Transport is the shared transport a Device runs on.
type Transport interface {
	// Send queues msg for the peer and notifies it. Payloads larger than
	// MTU are rejected with ErrPayloadTooLarge.
	Send(ctx context.Context, msg Message) error

	// Announce sends a name service record to the peer's name service.
	Announce(ctx context.Context, a Announcement) error

	// MTU returns the largest payload the transport carries.
	MTU() int

	// Deinit ends this side's participation. The peer observes it as a
	// teardown after everything sent before it.
	Deinit(ctx context.Context) error
}

// Receiver is the transport's delivery point into a Device.
// Calls are serialised and made in arrival order.
type Receiver interface {
	// HandleMessage delivers one data message.
	HandleMessage(msg Message)

	// HandleAnnouncement delivers one name service record.
	HandleAnnouncement(a Announcement)

	// HandleTeardown reports that the peer has deinitialised.
	HandleTeardown()
}
