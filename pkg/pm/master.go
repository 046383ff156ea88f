package pm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/ipibuf"
)

// Master errors.
var (
	ErrNoMaster        = errors.New("pm: no such master")
	ErrDuplicateMaster = errors.New("pm: duplicate master")
)

// Master is a PM master as seen by the firmware: the node it is, the
// buffer the firmware writes callbacks into, and the IPI channel(s) that
// reach it.
type Master struct {
	Name   string
	NodeID NodeID
	Buffer *ipibuf.Buffer
	Mask   ipi.Mask

	// mu makes each (encode, raise) pair atomic with respect to other
	// dispatches to the same master.
	mu sync.Mutex
}

// String returns the master's name and node.
func (m *Master) String() string {
	return fmt.Sprintf("%s(%s)", m.Name, m.NodeID)
}

// MasterTable is the firmware's set of known masters.
type MasterTable struct {
	masters []*Master
}

// NewMasterTable validates masters: each needs a buffer and a mask, and
// node ids, masks and buffers must be distinct.
func NewMasterTable(masters ...*Master) (*MasterTable, error) {
	t := &MasterTable{}
	for i, m := range masters {
		if m == nil || m.Buffer == nil || m.Mask == 0 {
			return nil, fmt.Errorf("pm: master %d: buffer and mask are required", i)
		}
		for _, o := range t.masters {
			switch {
			case o.NodeID == m.NodeID:
				return nil, fmt.Errorf("%w: node %s", ErrDuplicateMaster, m.NodeID)
			case o.Mask.Has(m.Mask):
				return nil, fmt.Errorf("%w: mask %s", ErrDuplicateMaster, m.Mask)
			case o.Buffer == m.Buffer:
				return nil, fmt.Errorf("%w: %s and %s share a buffer", ErrDuplicateMaster, o.Name, m.Name)
			}
		}
		t.masters = append(t.masters, m)
	}
	return t, nil
}

// Lookup returns the master for node.
func (t *MasterTable) Lookup(node NodeID) (*Master, error) {
	for _, m := range t.masters {
		if m.NodeID == node {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: node %s", ErrNoMaster, node)
}

// ByName returns the master called name.
func (t *MasterTable) ByName(name string) (*Master, error) {
	for _, m := range t.masters {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoMaster, name)
}

// All returns the masters in registration order.
func (t *MasterTable) All() []*Master {
	return append([]*Master(nil), t.masters...)
}
