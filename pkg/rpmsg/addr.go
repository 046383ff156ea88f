package rpmsg

import "fmt"

// Addr is an rpmsg endpoint address.
type Addr uint32

const (
	// AddrAny requests a dynamically allocated address or, as a remote
	// address, means "the channel peer".
	AddrAny Addr = 0xFFFFFFFF

	// NameServiceAddr is the reserved name service address.
	NameServiceAddr Addr = 53

	// FirstDynamicAddr is the first address handed out for AddrAny.
	FirstDynamicAddr Addr = 1024
)

// String returns the address in decimal, or "ANY".
func (a Addr) String() string {
	if a == AddrAny {
		return "ANY"
	}
	return fmt.Sprintf("%d", uint32(a))
}
