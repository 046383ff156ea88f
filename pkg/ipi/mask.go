package ipi

import (
	"fmt"
	"strconv"
	"strings"
)

// Mask is a bitmask of IPI channels.
type Mask uint32

// ZynqMP IPI channel masks.
const (
	MaskAPU  Mask = 0x00000001
	MaskRPU0 Mask = 0x00000100
	MaskRPU1 Mask = 0x00000200
	MaskPMU0 Mask = 0x00010000
	MaskPMU1 Mask = 0x00020000
	MaskPMU2 Mask = 0x00040000
	MaskPMU3 Mask = 0x00080000
	MaskPL0  Mask = 0x01000000
	MaskPL1  Mask = 0x02000000
	MaskPL2  Mask = 0x04000000
	MaskPL3  Mask = 0x08000000
)

var maskNames = []struct {
	m    Mask
	name string
}{
	{MaskAPU, "APU"},
	{MaskRPU0, "RPU0"},
	{MaskRPU1, "RPU1"},
	{MaskPMU0, "PMU0"},
	{MaskPMU1, "PMU1"},
	{MaskPMU2, "PMU2"},
	{MaskPMU3, "PMU3"},
	{MaskPL0, "PL0"},
	{MaskPL1, "PL1"},
	{MaskPL2, "PL2"},
	{MaskPL3, "PL3"},
}

// Has reports whether m includes any bit of o.
func (m Mask) Has(o Mask) bool {
	return m&o != 0
}

// String returns the named channels in m, e.g. "APU|RPU0".
// Unnamed bits are rendered in hex.
func (m Mask) String() string {
	if m == 0 {
		return "NONE"
	}
	var parts []string
	rest := m
	for _, n := range maskNames {
		if m&n.m != 0 {
			parts = append(parts, n.name)
			rest &^= n.m
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseMask parses a channel name (as printed by String) or a numeric mask.
func ParseMask(s string) (Mask, error) {
	var out Mask
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		found := false
		for _, n := range maskNames {
			if strings.EqualFold(part, n.name) {
				out |= n.m
				found = true
				break
			}
		}
		if found {
			continue
		}
		v, err := strconv.ParseUint(part, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("ipi: invalid mask %q", part)
		}
		out |= Mask(v)
	}
	return out, nil
}
