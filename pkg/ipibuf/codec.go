package ipibuf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Buffer layout.
const (
	// PayloadElemSize is the size of one payload word in bytes.
	PayloadElemSize = 4

	// RequestOffset is the byte offset of the request region.
	RequestOffset = 0x00

	// ResponseOffset is the byte offset of the response region.
	ResponseOffset = 0x20

	// MessageSize is the size of one region in bytes.
	MessageSize = 0x20

	// BufferSize is the size of one channel pair buffer.
	BufferSize = 0x40

	// MaxRequestWords is the largest number of words written per message.
	MaxRequestWords = 5
)

// Codec errors.
var (
	// ErrProtocolViolation marks a write or read outside the fixed layout.
	ErrProtocolViolation = errors.New("ipibuf: protocol violation")

	// ErrBufferTooSmall is returned when backing memory cannot hold a buffer.
	ErrBufferTooSmall = errors.New("ipibuf: buffer too small")
)

// byteOrder is the word order of the IPI hardware.
var byteOrder = binary.LittleEndian

func checkRange(buf []byte, offset, count int) {
	if count < 0 || count > MaxRequestWords {
		panic(fmt.Errorf("%w: %d words exceeds limit of %d", ErrProtocolViolation, count, MaxRequestWords))
	}
	if offset < 0 || offset%PayloadElemSize != 0 {
		panic(fmt.Errorf("%w: misaligned offset %d", ErrProtocolViolation, offset))
	}
	if end := offset + count*PayloadElemSize; end > len(buf) {
		panic(fmt.Errorf("%w: %d words at offset %d overrun %d-byte buffer", ErrProtocolViolation, count, offset, len(buf)))
	}
}

// Encode writes values as consecutive words starting at offset.
// It panics if more than MaxRequestWords values are given or the words do
// not fit in buf.
func Encode(buf []byte, offset int, values ...uint32) {
	checkRange(buf, offset, len(values))
	for i, v := range values {
		byteOrder.PutUint32(buf[offset+i*PayloadElemSize:], v)
	}
}

// Decode reads count consecutive words starting at offset.
// It panics under the same conditions as Encode.
func Decode(buf []byte, offset, count int) []uint32 {
	checkRange(buf, offset, count)
	out := make([]uint32, count)
	for i := range out {
		out[i] = byteOrder.Uint32(buf[offset+i*PayloadElemSize:])
	}
	return out
}
