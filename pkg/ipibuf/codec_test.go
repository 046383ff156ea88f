package ipibuf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, ErrProtocolViolation), "panic %v does not wrap ErrProtocolViolation", err)
	}()
	fn()
}

func TestEncodeLayout(t *testing.T) {
	buf := make([]byte, MessageSize)
	Encode(buf, 0, 31, 7, 0, 2)

	want := []byte{
		31, 0, 0, 0,
		7, 0, 0, 0,
		0, 0, 0, 0,
		2, 0, 0, 0,
	}
	assert.Equal(t, want, buf[:16])
	assert.Equal(t, make([]byte, MessageSize-16), buf[16:], "bytes past the last word must be untouched")
}

func TestEncodeLittleEndian(t *testing.T) {
	buf := make([]byte, 8)
	Encode(buf, 4, 0xEF56A55A)
	assert.Equal(t, []byte{0, 0, 0, 0, 0x5A, 0xA5, 0x56, 0xEF}, buf)
}

func TestDecodeInverse(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		values []uint32
	}{
		{"Empty", 0, nil},
		{"One", 0, []uint32{0xDEADBEEF}},
		{"Five", 12, []uint32{30, 201, 0, 15, 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, BufferSize)
			Encode(buf, tt.offset, tt.values...)
			got := Decode(buf, tt.offset, len(tt.values))
			assert.Equal(t, len(tt.values), len(got))
			for i := range tt.values {
				assert.Equal(t, tt.values[i], got[i])
			}
		})
	}
}

func TestEncodeIdempotent(t *testing.T) {
	a := make([]byte, MessageSize)
	b := make([]byte, MessageSize)
	Encode(a, 0, 32, 8, 1, 0)
	Encode(b, 0, 32, 8, 1, 0)
	Encode(b, 0, 32, 8, 1, 0)
	assert.Equal(t, a, b)
}

func TestEncodeViolations(t *testing.T) {
	t.Run("TooManyWords", func(t *testing.T) {
		expectViolation(t, func() { Encode(make([]byte, BufferSize), 0, 1, 2, 3, 4, 5, 6) })
	})
	t.Run("Overrun", func(t *testing.T) {
		expectViolation(t, func() { Encode(make([]byte, MessageSize), 24, 1, 2, 3) })
	})
	t.Run("NegativeOffset", func(t *testing.T) {
		expectViolation(t, func() { Encode(make([]byte, MessageSize), -4, 1) })
	})
	t.Run("Misaligned", func(t *testing.T) {
		expectViolation(t, func() { Encode(make([]byte, MessageSize), 2, 1) })
	})
	t.Run("DecodeOverrun", func(t *testing.T) {
		expectViolation(t, func() { Decode(make([]byte, 8), 4, 2) })
	})
}

func TestEncodeExactFit(t *testing.T) {
	buf := make([]byte, 20)
	assert.NotPanics(t, func() { Encode(buf, 0, 1, 2, 3, 4, 5) })
}
