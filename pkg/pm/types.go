package pm

import "fmt"

// NodeID identifies a PM node.
type NodeID uint32

// ZynqMP PM node ids (subset relevant to masters and their peripherals).
const (
	NodeUnknown  NodeID = 0
	NodeAPU      NodeID = 1
	NodeAPU0     NodeID = 2
	NodeAPU1     NodeID = 3
	NodeAPU2     NodeID = 4
	NodeAPU3     NodeID = 5
	NodeRPU      NodeID = 6
	NodeRPU0     NodeID = 7
	NodeRPU1     NodeID = 8
	NodePLD      NodeID = 9
	NodeFPD      NodeID = 10
	NodeOCMBank0 NodeID = 11
	NodeOCMBank1 NodeID = 12
	NodeOCMBank2 NodeID = 13
	NodeOCMBank3 NodeID = 14
	NodeTCM0A    NodeID = 15
	NodeTCM0B    NodeID = 16
	NodeTCM1A    NodeID = 17
	NodeTCM1B    NodeID = 18
	NodeL2       NodeID = 19
	NodeGPUPP0   NodeID = 20
	NodeGPUPP1   NodeID = 21
	NodeUSB0     NodeID = 22
	NodeUSB1     NodeID = 23
	NodeTTC0     NodeID = 24
)

var nodeNames = map[NodeID]string{
	NodeUnknown:  "NODE_UNKNOWN",
	NodeAPU:      "NODE_APU",
	NodeAPU0:     "NODE_APU_0",
	NodeAPU1:     "NODE_APU_1",
	NodeAPU2:     "NODE_APU_2",
	NodeAPU3:     "NODE_APU_3",
	NodeRPU:      "NODE_RPU",
	NodeRPU0:     "NODE_RPU_0",
	NodeRPU1:     "NODE_RPU_1",
	NodePLD:      "NODE_PLD",
	NodeFPD:      "NODE_FPD",
	NodeOCMBank0: "NODE_OCM_BANK_0",
	NodeOCMBank1: "NODE_OCM_BANK_1",
	NodeOCMBank2: "NODE_OCM_BANK_2",
	NodeOCMBank3: "NODE_OCM_BANK_3",
	NodeTCM0A:    "NODE_TCM_0_A",
	NodeTCM0B:    "NODE_TCM_0_B",
	NodeTCM1A:    "NODE_TCM_1_A",
	NodeTCM1B:    "NODE_TCM_1_B",
	NodeL2:       "NODE_L2",
	NodeGPUPP0:   "NODE_GPU_PP_0",
	NodeGPUPP1:   "NODE_GPU_PP_1",
	NodeUSB0:     "NODE_USB_0",
	NodeUSB1:     "NODE_USB_1",
	NodeTTC0:     "NODE_TTC_0",
}

// String returns the firmware name of the node.
func (n NodeID) String() string {
	if s, ok := nodeNames[n]; ok {
		return s
	}
	return fmt.Sprintf("NODE(%d)", uint32(n))
}

// Status is the result code carried by an acknowledge.
type Status uint32

// PM status codes.
const (
	StatusSuccess       Status = 0
	StatusInternal      Status = 2000
	StatusConflict      Status = 2001
	StatusNoAccess      Status = 2002
	StatusInvalidNode   Status = 2003
	StatusDoubleRequest Status = 2004
	StatusAbortSuspend  Status = 2005
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInternal:
		return "PM_INTERNAL"
	case StatusConflict:
		return "PM_CONFLICT"
	case StatusNoAccess:
		return "PM_NO_ACCESS"
	case StatusInvalidNode:
		return "PM_INVALID_NODE"
	case StatusDoubleRequest:
		return "PM_DOUBLE_REQ"
	case StatusAbortSuspend:
		return "PM_ABORT_SUSPEND"
	default:
		return fmt.Sprintf("STATUS(%d)", uint32(s))
	}
}

// NotifyEvent is the event a master registered for.
type NotifyEvent uint32

// Notification events.
const (
	EventStateChange    NotifyEvent = 1
	EventZeroUsers      NotifyEvent = 2
	EventErrorCondition NotifyEvent = 3
)

// String returns the event name.
func (e NotifyEvent) String() string {
	switch e {
	case EventStateChange:
		return "STATE_CHANGE"
	case EventZeroUsers:
		return "ZERO_USERS"
	case EventErrorCondition:
		return "ERROR_CONDITION"
	default:
		return fmt.Sprintf("EVENT(%d)", uint32(e))
	}
}

// SuspendReason explains why a master is asked to suspend.
type SuspendReason uint32

// Suspend reasons.
const (
	SuspendReasonPowerUnitRequest SuspendReason = 201
	SuspendReasonAlert            SuspendReason = 202
	SuspendReasonSystemShutdown   SuspendReason = 203
)

// String returns the reason name.
func (r SuspendReason) String() string {
	switch r {
	case SuspendReasonPowerUnitRequest:
		return "PU_REQ"
	case SuspendReasonAlert:
		return "ALERT"
	case SuspendReasonSystemShutdown:
		return "SYS_SHUTDOWN"
	default:
		return fmt.Sprintf("REASON(%d)", uint32(r))
	}
}
