package pm

import (
	"errors"
	"fmt"

	"github.com/loserking/embeddedsw/pkg/ipibuf"
)

// ErrUnknownTag is returned when a buffer holds no known callback.
var ErrUnknownTag = errors.New("pm: unknown callback tag")

// Tag is the callback API id written as word 0.
type Tag uint32

// Callback API ids.
const (
	TagInitSuspend Tag = 30
	TagAcknowledge Tag = 31
	TagNotify      Tag = 32
)

// String returns the firmware name of the tag.
func (t Tag) String() string {
	switch t {
	case TagInitSuspend:
		return "PM_INIT_SUSPEND_CB"
	case TagAcknowledge:
		return "PM_ACKNOWLEDGE_CB"
	case TagNotify:
		return "PM_NOTIFY_CB"
	default:
		return fmt.Sprintf("TAG(%d)", uint32(t))
	}
}

// Arity returns the number of data words following the tag, or -1 for an
// unknown tag.
func (t Tag) Arity() int {
	switch t {
	case TagAcknowledge, TagNotify:
		return 3
	case TagInitSuspend:
		return 4
	default:
		return -1
	}
}

// Event is a callback payload. The set of implementations is closed:
// Acknowledge, Notify and InitSuspend.
type Event interface {
	// Tag returns the callback id.
	Tag() Tag

	// Words returns the tag followed by the data words, in wire order.
	Words() []uint32

	sealed()
}

// Acknowledge tells a master the outcome of a PM operation it did not
// block on.
type Acknowledge struct {
	NodeID  NodeID
	Status  Status
	OpPoint uint32
}

// Tag implements Event.
func (Acknowledge) Tag() Tag { return TagAcknowledge }

// Words implements Event.
func (a Acknowledge) Words() []uint32 {
	return []uint32{uint32(TagAcknowledge), uint32(a.NodeID), uint32(a.Status), a.OpPoint}
}

func (Acknowledge) sealed() {}

// Notify tells a master that a registered event occurred on a node.
type Notify struct {
	NodeID  NodeID
	Event   NotifyEvent
	OpPoint uint32
}

// Tag implements Event.
func (Notify) Tag() Tag { return TagNotify }

// Words implements Event.
func (n Notify) Words() []uint32 {
	return []uint32{uint32(TagNotify), uint32(n.NodeID), uint32(n.Event), n.OpPoint}
}

func (Notify) sealed() {}

// InitSuspend asks a master to suspend itself. Timeout is interpreted by
// the master only.
type InitSuspend struct {
	Reason  SuspendReason
	Latency uint32
	State   uint32
	Timeout uint32
}

// Tag implements Event.
func (InitSuspend) Tag() Tag { return TagInitSuspend }

// Words implements Event.
func (s InitSuspend) Words() []uint32 {
	return []uint32{uint32(TagInitSuspend), uint32(s.Reason), s.Latency, s.State, s.Timeout}
}

func (InitSuspend) sealed() {}

// DecodeEvent reads the callback in buf's request region.
func DecodeEvent(buf *ipibuf.Buffer) (Event, error) {
	tag := Tag(buf.ReadRequest(1)[0])
	n := tag.Arity()
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, uint32(tag))
	}
	w := buf.ReadRequest(1 + n)

	switch tag {
	case TagAcknowledge:
		return Acknowledge{NodeID: NodeID(w[1]), Status: Status(w[2]), OpPoint: w[3]}, nil
	case TagNotify:
		return Notify{NodeID: NodeID(w[1]), Event: NotifyEvent(w[2]), OpPoint: w[3]}, nil
	case TagInitSuspend:
		return InitSuspend{Reason: SuspendReason(w[1]), Latency: w[2], State: w[3], Timeout: w[4]}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownTag, uint32(tag))
}
