package commands

import (
	"fmt"

	"github.com/loserking/embeddedsw/pkg/log"
)

// RunFilter copies the events of path selected by sel into a new capture
// at output and returns how many were copied.
func RunFilter(path, output string, sel Selector) (int, error) {
	filter, err := sel.Filter()
	if err != nil {
		return 0, err
	}

	out, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer out.Close()

	return scan(path, filter, func(event log.Event) error {
		out.Log(event)
		return nil
	})
}
