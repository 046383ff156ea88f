package pm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/ipibuf"
)

func TestReceiverFiltersSource(t *testing.T) {
	buf := ipibuf.Alloc()
	buf.WriteRequest(Acknowledge{NodeID: NodeAPU, Status: StatusSuccess}.Words()...)

	var got []Event
	r, err := NewReceiver(buf, ipi.MaskPMU0, func(ev Event) { got = append(got, ev) })
	require.NoError(t, err)

	r.HandleIPI(ipi.MaskRPU0)
	assert.Empty(t, got)

	r.HandleIPI(ipi.MaskPMU0 | ipi.MaskRPU0)
	assert.Equal(t, []Event{Acknowledge{NodeID: NodeAPU, Status: StatusSuccess}}, got)
}

func TestReceiverReportsGarbage(t *testing.T) {
	buf := ipibuf.Alloc()
	buf.WriteRequest(7)

	var errs []error
	r, err := NewReceiver(buf, ipi.MaskPMU0, func(Event) { t.Fatal("unexpected event") })
	require.NoError(t, err)
	r.OnError(func(err error) { errs = append(errs, err) })

	r.HandleIPI(ipi.MaskPMU0)
	assert.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrUnknownTag)
}

func TestNewReceiverRejectsNil(t *testing.T) {
	_, err := NewReceiver(ipibuf.Alloc(), ipi.MaskPMU0, nil)
	assert.EqualError(t, err, "pm: nil handler")

	_, err = NewReceiver(nil, ipi.MaskPMU0, func(Event) {})
	assert.EqualError(t, err, "pm: nil buffer")
}
