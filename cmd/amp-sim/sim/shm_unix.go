//go:build unix

package sim

import (
	"io"

	"github.com/loserking/embeddedsw/pkg/ipibuf"
	"github.com/loserking/embeddedsw/pkg/shmem"
)

// mapBuffers maps path and hands out one buffer window per index.
func mapBuffers(path string, size int) (io.Closer, func(int) ([]byte, error), error) {
	region, err := shmem.Map(path, size)
	if err != nil {
		return nil, nil, err
	}
	return region, func(i int) ([]byte, error) {
		return region.Slice(i*ipibuf.BufferSize, ipibuf.BufferSize)
	}, nil
}
