package rpmsg

import "encoding/binary"

// ShutdownSentinel is the payload word a master sends to end the session.
const ShutdownSentinel uint32 = 0xEF56A55A

// sentinelSize is the exact length of a shutdown request.
const sentinelSize = 4

// Message is one unit of transfer.
type Message struct {
	Src     Addr
	Dst     Addr
	Payload []byte
}

// Len returns the payload length.
func (m Message) Len() int {
	return len(m.Payload)
}

// IsShutdown reports whether payload is a shutdown request: exactly four
// bytes holding ShutdownSentinel in little-endian order. Everything else is
// application data.
func IsShutdown(payload []byte) bool {
	return len(payload) == sentinelSize && binary.LittleEndian.Uint32(payload) == ShutdownSentinel
}

// ShutdownPayload returns a fresh shutdown request payload.
func ShutdownPayload() []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, sentinelSize), ShutdownSentinel)
}
