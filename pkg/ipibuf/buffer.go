package ipibuf

import "fmt"

// Buffer is one channel pair's message buffer.
//
// A Buffer has a single writer per region: the owner of the request region
// (for callbacks, the power-management firmware) is the only producer, and
// the addressed master the only consumer. Buffer itself does no locking.
type Buffer struct {
	mem []byte
}

// NewBuffer wraps mem. mem must hold at least BufferSize bytes; this is the
// only size check, every later access is within the fixed layout.
func NewBuffer(mem []byte) (*Buffer, error) {
	if len(mem) < BufferSize {
		return nil, fmt.Errorf("%w: %d < %d bytes", ErrBufferTooSmall, len(mem), BufferSize)
	}
	return &Buffer{mem: mem[:BufferSize:BufferSize]}, nil
}

// MustNewBuffer is NewBuffer for statically sized memory. It panics on error.
func MustNewBuffer(mem []byte) *Buffer {
	b, err := NewBuffer(mem)
	if err != nil {
		panic(err)
	}
	return b
}

// Alloc returns a Buffer backed by fresh heap memory.
func Alloc() *Buffer {
	return &Buffer{mem: make([]byte, BufferSize)}
}

// WriteRequest encodes values into the request region.
func (b *Buffer) WriteRequest(values ...uint32) {
	Encode(b.mem[RequestOffset:RequestOffset+MessageSize], 0, values...)
}

// ReadRequest decodes count words from the request region.
func (b *Buffer) ReadRequest(count int) []uint32 {
	return Decode(b.mem[RequestOffset:RequestOffset+MessageSize], 0, count)
}

// WriteResponse encodes values into the response region.
func (b *Buffer) WriteResponse(values ...uint32) {
	Encode(b.mem[ResponseOffset:ResponseOffset+MessageSize], 0, values...)
}

// ReadResponse decodes count words from the response region.
func (b *Buffer) ReadResponse(count int) []uint32 {
	return Decode(b.mem[ResponseOffset:ResponseOffset+MessageSize], 0, count)
}

// Clear zeroes both regions.
func (b *Buffer) Clear() {
	clear(b.mem)
}

// Bytes exposes the raw buffer memory.
func (b *Buffer) Bytes() []byte {
	return b.mem
}
