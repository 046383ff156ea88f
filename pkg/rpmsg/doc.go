// Package rpmsg implements rpmsg-style channels between a master and a
// remote context over a shared transport.
//
// # Lifecycle
//
// The remote advertises a named channel through the name service. The
// master creates its side of the channel, reports it to its application and
// acknowledges. On the acknowledgement the remote's channel is created too,
// and its application binds an [Endpoint]:
//
//	Unadvertised → Created → Active → Deleted
//
// A channel becomes Active with its first endpoint. Deleted is terminal: the
// endpoints are released first, then the deleted notification fires exactly
// once, and every later send fails with [ErrChannelNotActive].
//
// # Shutdown
//
// The master ends a session by sending the 4-byte shutdown sentinel. The
// remote recognises it, deletes its channel and tears down its transport
// participation. There is no separate acknowledgement message: the master
// observes the teardown through its transport and completes its own
// deinitialisation, which closes [Device.Done].
//
// # Context object
//
// All state lives in a [Device], one per side, owned by the caller's run
// loop. Channels keep a non-owning reference to their device; endpoints keep
// a non-owning reference to their channel.
package rpmsg
