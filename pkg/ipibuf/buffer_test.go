package ipibuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferSize(t *testing.T) {
	_, err := NewBuffer(make([]byte, BufferSize-1))
	assert.ErrorIs(t, err, ErrBufferTooSmall)

	b, err := NewBuffer(make([]byte, 2*BufferSize))
	require.NoError(t, err)
	assert.Len(t, b.Bytes(), BufferSize)

	assert.Panics(t, func() { MustNewBuffer(nil) })
}

func TestBufferRegions(t *testing.T) {
	mem := make([]byte, BufferSize)
	b := MustNewBuffer(mem)

	b.WriteRequest(31, 7, 0, 2)
	b.WriteResponse(0)

	assert.Equal(t, []uint32{31, 7, 0, 2}, b.ReadRequest(4))
	assert.Equal(t, []uint32{0}, b.ReadResponse(1))
	assert.Equal(t, byte(31), mem[RequestOffset])
	assert.Equal(t, byte(0), mem[ResponseOffset])

	b.Clear()
	assert.Equal(t, []uint32{0, 0, 0, 0}, b.ReadRequest(4))
}

func TestBufferRequestRegionBounded(t *testing.T) {
	b := Alloc()
	b.WriteResponse(0xAAAAAAAA, 0xBBBBBBBB)
	b.WriteRequest(1, 2, 3, 4, 5)

	// The request region never spills into the response region.
	assert.Equal(t, []uint32{0xAAAAAAAA, 0xBBBBBBBB}, b.ReadResponse(2))
	expectViolation(t, func() { b.WriteRequest(1, 2, 3, 4, 5, 6) })
}
