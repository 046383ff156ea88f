package rpmsg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Name service record layout: NUL-padded name, address, flags.
const (
	// NameSize is the size of the name field, including the terminating NUL.
	NameSize = 32

	// AnnouncementSize is the encoded size of an Announcement.
	AnnouncementSize = NameSize + 8
)

// NSFlags is the name service operation.
type NSFlags uint32

const (
	// NSCreate announces a new channel.
	NSCreate NSFlags = 0
	// NSDestroy withdraws a channel.
	NSDestroy NSFlags = 1
	// NSAck is the master's acknowledgement of an NSCreate.
	NSAck NSFlags = 2
)

// String returns the operation name.
func (f NSFlags) String() string {
	switch f {
	case NSCreate:
		return "CREATE"
	case NSDestroy:
		return "DESTROY"
	case NSAck:
		return "ACK"
	default:
		return fmt.Sprintf("NS(%d)", uint32(f))
	}
}

// Announcement is a name service record.
type Announcement struct {
	Name  string
	Addr  Addr
	Flags NSFlags
}

// MarshalTo encodes a into buf, which must hold AnnouncementSize bytes.
func (a Announcement) MarshalTo(buf []byte) (int, error) {
	if len(a.Name) >= NameSize {
		return 0, fmt.Errorf("%w: %q", ErrNameTooLong, a.Name)
	}
	if len(buf) < AnnouncementSize {
		return 0, fmt.Errorf("rpmsg: name service buffer %d < %d bytes", len(buf), AnnouncementSize)
	}
	clear(buf[:NameSize])
	copy(buf, a.Name)
	binary.LittleEndian.PutUint32(buf[NameSize:], uint32(a.Addr))
	binary.LittleEndian.PutUint32(buf[NameSize+4:], uint32(a.Flags))
	return AnnouncementSize, nil
}

// Marshal encodes a into a new slice.
func (a Announcement) Marshal() ([]byte, error) {
	buf := make([]byte, AnnouncementSize)
	if _, err := a.MarshalTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ParseAnnouncement decodes a name service record.
func ParseAnnouncement(data []byte) (Announcement, error) {
	if len(data) != AnnouncementSize {
		return Announcement{}, fmt.Errorf("%w: %d bytes", ErrMalformedAnnouncement, len(data))
	}
	name := data[:NameSize]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	} else {
		return Announcement{}, fmt.Errorf("%w: unterminated name", ErrMalformedAnnouncement)
	}
	return Announcement{
		Name:  string(name),
		Addr:  Addr(binary.LittleEndian.Uint32(data[NameSize:])),
		Flags: NSFlags(binary.LittleEndian.Uint32(data[NameSize+4:])),
	}, nil
}
