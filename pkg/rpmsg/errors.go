package rpmsg

import "errors"

// Channel and endpoint errors.
var (
	// ErrAddressInUse indicates the local address is already bound on the channel.
	ErrAddressInUse = errors.New("rpmsg: address in use")

	// ErrChannelNotActive indicates the channel cannot carry traffic:
	// it was never created or it has been deleted.
	ErrChannelNotActive = errors.New("rpmsg: channel not active")

	// ErrPayloadTooLarge indicates the payload exceeds the transport MTU.
	ErrPayloadTooLarge = errors.New("rpmsg: payload too large")

	// ErrNameTooLong indicates a channel name does not fit a name service record.
	ErrNameTooLong = errors.New("rpmsg: channel name too long")

	// ErrMalformedAnnouncement indicates a name service record could not be parsed.
	ErrMalformedAnnouncement = errors.New("rpmsg: malformed name service record")

	// ErrUnknownChannel indicates no channel of that name exists.
	ErrUnknownChannel = errors.New("rpmsg: unknown channel")

	// ErrChannelExists indicates the channel name is already advertised.
	ErrChannelExists = errors.New("rpmsg: channel exists")

	// ErrDeinitialized indicates the device has left the transport.
	ErrDeinitialized = errors.New("rpmsg: device deinitialized")

	// ErrWrongRole indicates an operation reserved to the other side.
	ErrWrongRole = errors.New("rpmsg: operation not valid for role")
)
