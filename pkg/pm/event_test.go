package pm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loserking/embeddedsw/pkg/ipibuf"
)

func TestEventArity(t *testing.T) {
	events := []Event{
		Acknowledge{NodeID: NodeAPU, Status: StatusSuccess, OpPoint: 1},
		Notify{NodeID: NodeRPU, Event: EventStateChange},
		InitSuspend{Reason: SuspendReasonPowerUnitRequest, Timeout: 10},
	}
	for _, ev := range events {
		t.Run(ev.Tag().String(), func(t *testing.T) {
			words := ev.Words()
			assert.Equal(t, 1+ev.Tag().Arity(), len(words))
			assert.Equal(t, uint32(ev.Tag()), words[0])
			assert.LessOrEqual(t, len(words), ipibuf.MaxRequestWords)
		})
	}
}

func TestDecodeEvent(t *testing.T) {
	events := []Event{
		Acknowledge{NodeID: NodeUSB0, Status: StatusDoubleRequest, OpPoint: 3},
		Notify{NodeID: NodeL2, Event: EventErrorCondition, OpPoint: 0},
		InitSuspend{Reason: SuspendReasonAlert, Latency: 100, State: 2, Timeout: 5000},
	}
	for _, want := range events {
		buf := ipibuf.Alloc()
		buf.WriteRequest(want.Words()...)

		got, err := DecodeEvent(buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	buf := ipibuf.Alloc()
	buf.WriteRequest(99, 1, 2, 3)

	_, err := DecodeEvent(buf)
	assert.ErrorIs(t, err, ErrUnknownTag)
	assert.Equal(t, -1, Tag(99).Arity())
	assert.Equal(t, "TAG(99)", Tag(99).String())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "PM_ACKNOWLEDGE_CB", TagAcknowledge.String())
	assert.Equal(t, "NODE_RPU_0", NodeRPU0.String())
	assert.Equal(t, "NODE(999)", NodeID(999).String())
	assert.Equal(t, "PM_ABORT_SUSPEND", StatusAbortSuspend.String())
	assert.Equal(t, "SYS_SHUTDOWN", SuspendReasonSystemShutdown.String())
	assert.Equal(t, "ZERO_USERS", EventZeroUsers.String())
}
