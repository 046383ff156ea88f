package pm

import (
	"errors"

	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/ipibuf"
)

// Receiver is the master side of the callback protocol: an IPI handler that
// decodes the callback currently in the master's buffer.
//
// A buffer holds one callback. If the firmware dispatches twice before the
// master runs, the coalesced interrupt reveals only the latest payload.
type Receiver struct {
	buf     *ipibuf.Buffer
	from    ipi.Mask
	handle  func(Event)
	onError func(error)
}

// NewReceiver returns a handler for callbacks in buf raised by any channel
// in from (normally the PMU channels). handle is called once per delivery.
func NewReceiver(buf *ipibuf.Buffer, from ipi.Mask, handle func(Event)) (*Receiver, error) {
	if buf == nil {
		return nil, errors.New("pm: nil buffer")
	}
	if handle == nil {
		return nil, errors.New("pm: nil handler")
	}
	return &Receiver{buf: buf, from: from, handle: handle}, nil
}

// OnError sets a callback for undecodable buffers.
func (r *Receiver) OnError(fn func(error)) {
	r.onError = fn
}

// HandleIPI implements ipi.Handler.
func (r *Receiver) HandleIPI(src ipi.Mask) {
	if !src.Has(r.from) {
		return
	}
	ev, err := DecodeEvent(r.buf)
	if err != nil {
		if r.onError != nil {
			r.onError(err)
		}
		return
	}
	r.handle(ev)
}

var _ ipi.Handler = (*Receiver)(nil)
