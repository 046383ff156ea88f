package rpmsg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncementWireLayout(t *testing.T) {
	a := Announcement{Name: "echo", Addr: 0x400, Flags: NSAck}
	data, err := a.Marshal()
	require.NoError(t, err)
	require.Len(t, data, AnnouncementSize)

	assert.Equal(t, []byte("echo"), data[:4])
	assert.Equal(t, make([]byte, NameSize-4), data[4:NameSize])
	assert.Equal(t, []byte{0x00, 0x04, 0x00, 0x00}, data[32:36])
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00}, data[36:40])

	got, err := ParseAnnouncement(data)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAnnouncementMarshalClearsName(t *testing.T) {
	buf := make([]byte, AnnouncementSize)
	for i := range buf {
		buf[i] = 'x'
	}
	_, err := Announcement{Name: "ab"}.MarshalTo(buf)
	require.NoError(t, err)

	got, err := ParseAnnouncement(buf)
	require.NoError(t, err)
	assert.Equal(t, "ab", got.Name)
}

func TestAnnouncementNameTooLong(t *testing.T) {
	_, err := Announcement{Name: strings.Repeat("n", NameSize)}.Marshal()
	assert.ErrorIs(t, err, ErrNameTooLong)

	_, err = Announcement{Name: strings.Repeat("n", NameSize-1)}.Marshal()
	assert.NoError(t, err)
}

func TestParseAnnouncementMalformed(t *testing.T) {
	_, err := ParseAnnouncement(make([]byte, AnnouncementSize-1))
	assert.ErrorIs(t, err, ErrMalformedAnnouncement)

	unterminated := []byte(strings.Repeat("n", NameSize) + "\x00\x00\x00\x00\x00\x00\x00\x00")
	_, err = ParseAnnouncement(unterminated)
	assert.ErrorIs(t, err, ErrMalformedAnnouncement)
}

func TestNSFlagsString(t *testing.T) {
	assert.Equal(t, "CREATE", NSCreate.String())
	assert.Equal(t, "DESTROY", NSDestroy.String())
	assert.Equal(t, "ACK", NSAck.String())
	assert.Equal(t, "NS(7)", NSFlags(7).String())
}
