package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/loserking/embeddedsw/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(path, w)
	case "csv":
		return exportCSV(path, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(path string, w io.Writer) error {
	encoder := json.NewEncoder(w)
	_, err := scan(path, log.Filter{}, func(event log.Event) error {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
	return err
}

func exportCSV(path string, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp", "session_id", "role", "direction", "layer", "category", "channel", "type", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	_, err := scan(path, log.Filter{}, func(event log.Event) error {
		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.SessionID,
			event.LocalRole.String(),
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			event.Channel,
			typeLabel(event),
			detail(event),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// detail is a one-field summary of the event payload.
func detail(event log.Event) string {
	switch {
	case event.Signal != nil:
		return fmt.Sprintf("0x%x->0x%x", event.Signal.Source, event.Signal.Destination)
	case event.Buffer != nil:
		return fmt.Sprintf("node=%d words=%v", event.Buffer.Node, event.Buffer.Words)
	case event.Message != nil:
		return fmt.Sprintf("%d->%d size=%d", event.Message.Src, event.Message.Dst, event.Message.Size)
	case event.StateChange != nil:
		return event.StateChange.OldState + "->" + event.StateChange.NewState
	case event.Error != nil:
		return event.Error.Message
	default:
		return ""
	}
}
