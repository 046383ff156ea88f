package link

import (
	"fmt"
	"log/slog"

	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/log"
)

const (
	// DefaultMTU is an rpmsg 512-byte buffer minus its 16-byte header.
	DefaultMTU = 496

	// DefaultQueueDepth is the per-direction queue capacity.
	DefaultQueueDepth = 256
)

// Config configures a Link.
type Config struct {
	// MasterMask is the IPI channel of the master context.
	MasterMask ipi.Mask

	// RemoteMask is the IPI channel of the remote context.
	RemoteMask ipi.Mask

	// MTU is the largest payload carried.
	MTU int

	// QueueDepth bounds the messages in flight per direction.
	QueueDepth int

	// SyncDelivery delivers in the raising goroutine.
	SyncDelivery bool

	// Logger is the optional operational logger. Nil disables it.
	Logger *slog.Logger

	// ProtocolLogger captures IPI raises of both lines.
	ProtocolLogger log.Logger
}

// DefaultConfig returns an APU master talking to RPU0.
func DefaultConfig() Config {
	return Config{
		MasterMask: ipi.MaskAPU,
		RemoteMask: ipi.MaskRPU0,
		MTU:        DefaultMTU,
		QueueDepth: DefaultQueueDepth,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MasterMask == 0 || c.RemoteMask == 0 {
		return fmt.Errorf("link: master and remote masks are required")
	}
	if c.MasterMask.Has(c.RemoteMask) {
		return fmt.Errorf("link: master mask %s overlaps remote mask %s", c.MasterMask, c.RemoteMask)
	}
	if c.MTU < 4 {
		return fmt.Errorf("link: MTU %d too small", c.MTU)
	}
	if c.QueueDepth < 1 {
		return fmt.Errorf("link: queue depth %d too small", c.QueueDepth)
	}
	return nil
}
