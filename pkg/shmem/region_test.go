//go:build unix

package shmem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loserking/embeddedsw/pkg/ipibuf"
)

func TestRegionSharedBetweenMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipi.shm")

	a, err := Map(path, 4*ipibuf.BufferSize)
	require.NoError(t, err)
	defer a.Close()
	b, err := Map(path, 4*ipibuf.BufferSize)
	require.NoError(t, err)
	defer b.Close()

	wa, err := a.Slice(ipibuf.BufferSize, ipibuf.BufferSize)
	require.NoError(t, err)
	wb, err := b.Slice(ipibuf.BufferSize, ipibuf.BufferSize)
	require.NoError(t, err)

	ipibuf.MustNewBuffer(wa).WriteRequest(31, 7, 0, 2)
	assert.Equal(t, []uint32{31, 7, 0, 2}, ipibuf.MustNewBuffer(wb).ReadRequest(4))

	require.NoError(t, a.Sync())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte(31), raw[ipibuf.BufferSize])
}

func TestRegionSliceBounds(t *testing.T) {
	r, err := Map(filepath.Join(t.TempDir(), "r.shm"), 128)
	require.NoError(t, err)

	_, err = r.Slice(100, 64)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = r.Slice(-1, 4)
	assert.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	_, err = r.Slice(0, 4)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMapInvalidSize(t *testing.T) {
	_, err := Map(filepath.Join(t.TempDir(), "z.shm"), 0)
	assert.Error(t, err)
}
