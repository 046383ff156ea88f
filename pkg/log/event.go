package log

import "time"

// Event is a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID correlates the events of one device or dispatcher instance.
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates flow relative to the local context.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// LocalRole is the context that captured the event.
	LocalRole Role `cbor:"6,keyasint"`

	// Channel is the rpmsg channel name, if any.
	Channel string `cbor:"7,keyasint,omitempty"`

	// Exactly one of these is set.
	Signal      *SignalEvent      `cbor:"10,keyasint,omitempty"`
	Buffer      *BufferEvent      `cbor:"11,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"12,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of flow.
type Direction uint8

const (
	// DirectionIn indicates something received by the local context.
	DirectionIn Direction = 0
	// DirectionOut indicates something emitted by the local context.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerSignal is the inter-processor interrupt layer.
	LayerSignal Layer = 0
	// LayerBuffer is the shared IPI message buffer layer.
	LayerBuffer Layer = 1
	// LayerChannel is the rpmsg channel/endpoint layer.
	LayerChannel Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerSignal:
		return "SIGNAL"
	case LayerBuffer:
		return "BUFFER"
	case LayerChannel:
		return "CHANNEL"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates application data or a callback payload.
	CategoryMessage Category = 0
	// CategoryControl indicates protocol control traffic (name service,
	// shutdown sentinel, teardown).
	CategoryControl Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryControl:
		return "CONTROL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role identifies the execution context that captured an event.
type Role uint8

const (
	// RoleMaster is the context that initiates and can request shutdown.
	RoleMaster Role = 0
	// RoleRemote is the context serving requests.
	RoleRemote Role = 1
	// RoleFirmware is the privileged power-management firmware.
	RoleFirmware Role = 2
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "MASTER"
	case RoleRemote:
		return "REMOTE"
	case RoleFirmware:
		return "FIRMWARE"
	default:
		return "UNKNOWN"
	}
}

// SignalEvent captures an interrupt raise or delivery.
type SignalEvent struct {
	// Source is the mask of the raising channel.
	Source uint32 `cbor:"1,keyasint"`

	// Destination is the raised mask (for deliveries, the local mask).
	Destination uint32 `cbor:"2,keyasint"`
}

// BufferEvent captures words written to or read from an IPI message buffer.
type BufferEvent struct {
	// Node is the power-management node id of the buffer owner.
	Node uint32 `cbor:"1,keyasint"`

	// Offset is the byte offset of the first word.
	Offset uint32 `cbor:"2,keyasint"`

	// Words are the encoded words in order.
	Words []uint32 `cbor:"3,keyasint"`
}

// MessageEvent captures an rpmsg message.
type MessageEvent struct {
	Src uint32 `cbor:"1,keyasint"`
	Dst uint32 `cbor:"2,keyasint"`

	// Size is the payload length in bytes.
	Size int `cbor:"3,keyasint"`

	// Data is the payload (may be truncated for large payloads).
	Data []byte `cbor:"4,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"5,keyasint,omitempty"`
}

// MaxLogDataSize bounds the payload bytes copied into a MessageEvent.
const MaxLogDataSize = 256

// NewMessageEvent builds a MessageEvent, truncating the copied payload.
func NewMessageEvent(src, dst uint32, payload []byte) *MessageEvent {
	data := payload
	truncated := false
	if len(data) > MaxLogDataSize {
		data = data[:MaxLogDataSize]
		truncated = true
	}
	return &MessageEvent{
		Src:       src,
		Dst:       dst,
		Size:      len(payload),
		Data:      append([]byte(nil), data...),
		Truncated: truncated,
	}
}

// StateChangeEvent captures channel, endpoint and device lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityChannel indicates a channel state change.
	StateEntityChannel StateEntity = 0
	// StateEntityEndpoint indicates an endpoint bind or release.
	StateEntityEndpoint StateEntity = 1
	// StateEntityDevice indicates a device (transport participation) change.
	StateEntityDevice StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityChannel:
		return "CHANNEL"
	case StateEntityEndpoint:
		return "ENDPOINT"
	case StateEntityDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
