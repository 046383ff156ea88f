// Package board describes a simulated AMP board: the rpmsg link between
// master and remote, the PM firmware, its masters and the callbacks the
// firmware issues.
package board

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/loserking/embeddedsw/pkg/ipi"
	"github.com/loserking/embeddedsw/pkg/ipibuf"
	"github.com/loserking/embeddedsw/pkg/link"
	"github.com/loserking/embeddedsw/pkg/pm"
	"github.com/loserking/embeddedsw/pkg/rpmsg"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalidConfig indicates a board description that cannot be run.
var ErrInvalidConfig = errors.New("board: invalid config")

// Event types.
const (
	EventAcknowledge = "acknowledge"
	EventNotify      = "notify"
	EventInitSuspend = "initSuspend"
)

// Config is a board description.
type Config struct {
	Link     LinkConfig     `yaml:"link"`
	Echo     EchoConfig     `yaml:"echo"`
	Firmware FirmwareConfig `yaml:"firmware"`
	Masters  []MasterConfig `yaml:"masters"`
	Events   []EventConfig  `yaml:"events"`
}

// LinkConfig describes the rpmsg link.
type LinkConfig struct {
	MasterMask string `yaml:"masterMask"`
	RemoteMask string `yaml:"remoteMask"`
	MTU        int    `yaml:"mtu"`
	QueueDepth int    `yaml:"queueDepth"`
}

// EchoConfig describes the echo test.
type EchoConfig struct {
	Channel   string `yaml:"channel"`
	LocalAddr string `yaml:"localAddr"`
	Count     int    `yaml:"count"`
	Size      int    `yaml:"size"`
}

// FirmwareConfig describes the PM firmware context.
type FirmwareConfig struct {
	Mask string `yaml:"mask"`

	// ShmPath optionally places the master buffers in a shared memory file.
	ShmPath string `yaml:"shmPath"`
}

// MasterConfig describes one PM master.
type MasterConfig struct {
	Name string `yaml:"name"`
	Node uint32 `yaml:"node"`
	Mask string `yaml:"mask"`

	// Buffer is the index of the master's 64-byte IPI buffer.
	Buffer int `yaml:"buffer"`
}

// EventConfig is one callback the firmware dispatches. Only the fields of
// its type are used.
type EventConfig struct {
	Master  string `yaml:"master"`
	Type    string `yaml:"type"`
	Node    uint32 `yaml:"node"`
	Status  uint32 `yaml:"status"`
	Event   uint32 `yaml:"event"`
	OpPoint uint32 `yaml:"opPoint"`
	Reason  uint32 `yaml:"reason"`
	Latency uint32 `yaml:"latency"`
	State   uint32 `yaml:"state"`
	Timeout uint32 `yaml:"timeout"`
}

// Default returns the built-in board.
func Default() *Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("board: built-in config: %v", err))
	}
	return cfg
}

// Parse decodes and validates a board description. Omitted link and echo
// settings take their defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing: %v", ErrInvalidConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads a board description from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

func (c *Config) applyDefaults() {
	if c.Link.MasterMask == "" {
		c.Link.MasterMask = ipi.MaskAPU.String()
	}
	if c.Link.RemoteMask == "" {
		c.Link.RemoteMask = ipi.MaskRPU0.String()
	}
	if c.Link.MTU == 0 {
		c.Link.MTU = link.DefaultMTU
	}
	if c.Link.QueueDepth == 0 {
		c.Link.QueueDepth = link.DefaultQueueDepth
	}
	if c.Echo.Channel == "" {
		c.Echo.Channel = rpmsg.EchoServiceName
	}
	if c.Echo.LocalAddr == "" {
		c.Echo.LocalAddr = "any"
	}
	if c.Firmware.Mask == "" {
		c.Firmware.Mask = ipi.MaskPMU0.String()
	}
}

// Validate checks the description for consistency.
func (c *Config) Validate() error {
	lc, err := c.LinkConfig()
	if err != nil {
		return err
	}
	if err := lc.Validate(); err != nil {
		return invalid("%v", err)
	}
	if len(c.Echo.Channel) >= rpmsg.NameSize {
		return invalid("echo channel name %q too long", c.Echo.Channel)
	}
	if _, err := c.EchoAddr(); err != nil {
		return err
	}
	if c.Echo.Count < 0 || c.Echo.Size < 0 {
		return invalid("echo count and size must not be negative")
	}
	fw, err := ipi.ParseMask(c.Firmware.Mask)
	if err != nil || fw == 0 {
		return invalid("firmware mask %q", c.Firmware.Mask)
	}

	names := make(map[string]bool, len(c.Masters))
	buffers := make(map[int]bool, len(c.Masters))
	for i, m := range c.Masters {
		if m.Name == "" {
			return invalid("master %d has no name", i)
		}
		if names[m.Name] {
			return invalid("duplicate master %q", m.Name)
		}
		names[m.Name] = true
		mask, err := ipi.ParseMask(m.Mask)
		if err != nil || mask == 0 {
			return invalid("master %q mask %q", m.Name, m.Mask)
		}
		if mask.Has(fw) {
			return invalid("master %q shares the firmware mask", m.Name)
		}
		if m.Buffer < 0 || buffers[m.Buffer] {
			return invalid("master %q buffer %d", m.Name, m.Buffer)
		}
		buffers[m.Buffer] = true
	}

	for i, e := range c.Events {
		if !names[e.Master] {
			return invalid("event %d: unknown master %q", i, e.Master)
		}
		if _, err := e.PMEvent(); err != nil {
			return invalid("event %d: %v", i, err)
		}
	}
	return nil
}

// LinkConfig returns the rpmsg link settings.
func (c *Config) LinkConfig() (link.Config, error) {
	master, err := ipi.ParseMask(c.Link.MasterMask)
	if err != nil {
		return link.Config{}, invalid("link master mask: %v", err)
	}
	remote, err := ipi.ParseMask(c.Link.RemoteMask)
	if err != nil {
		return link.Config{}, invalid("link remote mask: %v", err)
	}
	return link.Config{
		MasterMask: master,
		RemoteMask: remote,
		MTU:        c.Link.MTU,
		QueueDepth: c.Link.QueueDepth,
	}, nil
}

// EchoAddr returns the echo endpoint address; "any" means dynamic.
func (c *Config) EchoAddr() (rpmsg.Addr, error) {
	s := strings.TrimSpace(c.Echo.LocalAddr)
	if strings.EqualFold(s, "any") {
		return rpmsg.AddrAny, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil || rpmsg.Addr(v) == rpmsg.NameServiceAddr {
		return 0, invalid("echo local address %q", c.Echo.LocalAddr)
	}
	return rpmsg.Addr(v), nil
}

// FirmwareMask returns the firmware's IPI channel.
func (c *Config) FirmwareMask() ipi.Mask {
	m, _ := ipi.ParseMask(c.Firmware.Mask)
	return m
}

// BufferCount returns the number of IPI buffers the masters need.
func (c *Config) BufferCount() int {
	n := 0
	for _, m := range c.Masters {
		if m.Buffer+1 > n {
			n = m.Buffer + 1
		}
	}
	return n
}

// MasterTable builds the firmware's master table. buffer returns the memory
// backing buffer index i; nil allocates private memory.
func (c *Config) MasterTable(buffer func(i int) ([]byte, error)) (*pm.MasterTable, error) {
	masters := make([]*pm.Master, 0, len(c.Masters))
	for _, mc := range c.Masters {
		mask, err := ipi.ParseMask(mc.Mask)
		if err != nil {
			return nil, invalid("master %q mask: %v", mc.Name, err)
		}
		var buf *ipibuf.Buffer
		if buffer == nil {
			buf = ipibuf.Alloc()
		} else {
			mem, err := buffer(mc.Buffer)
			if err != nil {
				return nil, fmt.Errorf("board: buffer for %q: %w", mc.Name, err)
			}
			if buf, err = ipibuf.NewBuffer(mem); err != nil {
				return nil, fmt.Errorf("board: buffer for %q: %w", mc.Name, err)
			}
		}
		masters = append(masters, &pm.Master{
			Name:   mc.Name,
			NodeID: pm.NodeID(mc.Node),
			Buffer: buf,
			Mask:   mask,
		})
	}
	return pm.NewMasterTable(masters...)
}

// PMEvent converts the entry to a callback event.
func (e EventConfig) PMEvent() (pm.Event, error) {
	switch e.Type {
	case EventAcknowledge:
		return pm.Acknowledge{NodeID: pm.NodeID(e.Node), Status: pm.Status(e.Status), OpPoint: e.OpPoint}, nil
	case EventNotify:
		return pm.Notify{NodeID: pm.NodeID(e.Node), Event: pm.NotifyEvent(e.Event), OpPoint: e.OpPoint}, nil
	case EventInitSuspend:
		return pm.InitSuspend{
			Reason:  pm.SuspendReason(e.Reason),
			Latency: e.Latency,
			State:   e.State,
			Timeout: e.Timeout,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
