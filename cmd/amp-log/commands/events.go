package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/loserking/embeddedsw/pkg/log"
)

// Selector holds event selection criteria as typed on the command line.
// Empty fields match everything.
type Selector struct {
	SessionID string
	Channel   string
	Since     string
	Until     string
	Layer     string
	Direction string
	Category  string
	Role      string
}

// Filter converts the criteria into a reader filter.
func (s Selector) Filter() (log.Filter, error) {
	f := log.Filter{SessionID: s.SessionID, Channel: s.Channel}

	var err error
	if f.TimeStart, err = optional("since", s.Since, parseTime); err != nil {
		return f, err
	}
	if f.TimeEnd, err = optional("until", s.Until, parseTime); err != nil {
		return f, err
	}
	if f.Layer, err = optional("layer", s.Layer, ParseLayerFlag); err != nil {
		return f, err
	}
	if f.Direction, err = optional("direction", s.Direction, ParseDirectionFlag); err != nil {
		return f, err
	}
	if f.Category, err = optional("category", s.Category, ParseCategoryFlag); err != nil {
		return f, err
	}
	if f.Role, err = optional("role", s.Role, ParseRoleFlag); err != nil {
		return f, err
	}
	return f, nil
}

// optional parses v unless it is empty, in which case the criterion is unset.
func optional[T any](name, v string, parse func(string) (T, error)) (*T, error) {
	if v == "" {
		return nil, nil
	}
	x, err := parse(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &x, nil
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// scan calls fn for every event of the capture at path that passes filter
// and returns how many it visited.
func scan(path string, filter log.Filter, fn func(log.Event) error) (int, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	n := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("failed to read event %d: %w", n+1, err)
		}
		if err := fn(event); err != nil {
			return n, err
		}
		n++
	}
}
