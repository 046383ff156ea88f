//go:build unix

package shmem

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Region errors.
var (
	ErrOutOfRange = errors.New("shmem: range outside region")
	ErrClosed     = errors.New("shmem: region closed")
)

// Region is a shared mapping of a file.
type Region struct {
	mu     sync.Mutex
	path   string
	mem    []byte
	closed bool
}

// Map opens (creating if needed) path, sizes it to size bytes and maps it
// read-write and shared.
func Map(path string, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shmem: invalid size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shmem: open %s: %w", path, err)
	}
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		return nil, fmt.Errorf("shmem: size %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shmem: mmap %s: %w", path, err)
	}
	return &Region{path: path, mem: mem}, nil
}

// Path returns the backing file path.
func (r *Region) Path() string {
	return r.path
}

// Size returns the mapping size in bytes.
func (r *Region) Size() int {
	return len(r.mem)
}

// Slice returns n bytes of the mapping starting at off. The slice aliases
// the mapping and is invalid after Close.
func (r *Region) Slice(off, n int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if off < 0 || n < 0 || off+n > len(r.mem) {
		return nil, fmt.Errorf("%w: [%d,%d) of %d", ErrOutOfRange, off, off+n, len(r.mem))
	}
	return r.mem[off : off+n : off+n], nil
}

// Sync flushes the mapping to the backing file.
func (r *Region) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return unix.Msync(r.mem, unix.MS_SYNC)
}

// Close unmaps the region. Close is idempotent.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := unix.Munmap(r.mem)
	r.mem = nil
	return err
}
