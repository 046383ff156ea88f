package rpmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsShutdown(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    bool
	}{
		{"Sentinel", []byte{0x5A, 0xA5, 0x56, 0xEF}, true},
		{"BigEndian", []byte{0xEF, 0x56, 0xA5, 0x5A}, false},
		{"Trailing", []byte{0x5A, 0xA5, 0x56, 0xEF, 0x00}, false},
		{"Short", []byte{0x5A, 0xA5, 0x56}, false},
		{"Data", []byte{1, 2, 3, 4}, false},
		{"Empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsShutdown(tt.payload))
		})
	}
}

func TestShutdownPayload(t *testing.T) {
	p := ShutdownPayload()
	assert.Equal(t, []byte{0x5A, 0xA5, 0x56, 0xEF}, p)
	assert.True(t, IsShutdown(p))

	// Each call returns a fresh slice.
	p[0] = 0
	assert.True(t, IsShutdown(ShutdownPayload()))
}

func TestAddrString(t *testing.T) {
	assert.Equal(t, "ANY", AddrAny.String())
	assert.Equal(t, "53", NameServiceAddr.String())
	assert.Equal(t, "1024", FirstDynamicAddr.String())
}

func TestChannelStateString(t *testing.T) {
	assert.Equal(t, "UNADVERTISED", ChannelUnadvertised.String())
	assert.Equal(t, "CREATED", ChannelCreated.String())
	assert.Equal(t, "ACTIVE", ChannelActive.String())
	assert.Equal(t, "DELETED", ChannelDeleted.String())
	assert.Equal(t, "UNKNOWN", ChannelState(9).String())
}
