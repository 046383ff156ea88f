package ipi

import (
	"fmt"
	"sync"
)

// Bus is an in-memory interrupt controller.
type Bus struct {
	mu     sync.RWMutex
	lines  []*Line
	closed bool
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Line creates a line for local and attaches it to the bus.
func (b *Bus) Line(local Mask, opts ...Option) *Line {
	l := NewLine(local, nil, opts...)
	l.trigger = &busTrigger{bus: b, src: l}
	b.mu.Lock()
	b.lines = append(b.lines, l)
	b.mu.Unlock()
	return l
}

// Detach removes l. Raises from l then fail with ErrHardwareFault and raises
// addressed to l are lost.
func (b *Bus) Detach(l *Line) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, x := range b.lines {
		if x == l {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			return
		}
	}
}

// Close powers the controller down; every later raise fails.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.lines = nil
	b.mu.Unlock()
}

func (b *Bus) route(src *Line, dst Mask) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("%w: bus closed", ErrHardwareFault)
	}
	attached := false
	var targets []*Line
	for _, l := range b.lines {
		if l == src {
			attached = true
		}
		if l.local.Has(dst) {
			targets = append(targets, l)
		}
	}
	b.mu.RUnlock()

	if !attached {
		return fmt.Errorf("%w: channel %s detached", ErrHardwareFault, src.local)
	}
	// Destinations that are not listening lose the interrupt, as on hardware.
	for _, t := range targets {
		t.Notify(src.local)
	}
	return nil
}

type busTrigger struct {
	bus *Bus
	src *Line
}

func (t *busTrigger) Trigger(dst Mask) error {
	return t.bus.route(t.src, dst)
}
