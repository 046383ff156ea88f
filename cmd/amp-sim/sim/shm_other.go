//go:build !unix

package sim

import (
	"errors"
	"io"
)

func mapBuffers(string, int) (io.Closer, func(int) ([]byte, error), error) {
	return nil, nil, errors.New("sim: shared memory buffers need a unix host")
}
