// Package commands implements the amp-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/loserking/embeddedsw/pkg/log"
)

var (
	headerFmt = color.New(color.Bold).SprintFunc()
	ctrlFmt   = color.New(color.FgCyan).SprintFunc()
	stateFmt  = color.New(color.FgYellow).SprintFunc()
	errFmt    = color.New(color.FgRed, color.Bold).SprintFunc()
	dimFmt    = color.New(color.Faint).SprintFunc()
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] ROLE DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)

	label := typeLabel(event)
	switch event.Category {
	case log.CategoryControl:
		label = ctrlFmt(label)
	case log.CategoryState:
		label = stateFmt(label)
	case log.CategoryError:
		label = errFmt(label)
	}

	fmt.Fprintf(w, "%s [%s] %-8s %-3s %s %s", dimFmt(ts), session,
		event.LocalRole.String(), event.Direction.String(), headerFmt(event.Layer.String()), label)
	if event.Channel != "" {
		fmt.Fprintf(w, " %s", event.Channel)
	}
	fmt.Fprintln(w)

	switch {
	case event.Signal != nil:
		formatSignalDetails(w, event.Signal)
	case event.Buffer != nil:
		formatBufferDetails(w, event.Buffer)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

func typeLabel(event log.Event) string {
	switch {
	case event.Signal != nil:
		return "Signal"
	case event.Buffer != nil:
		return "Buffer"
	case event.Message != nil && event.Category == log.CategoryControl:
		return "Control"
	case event.Message != nil:
		return "Message"
	case event.StateChange != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatSignalDetails(w io.Writer, sig *log.SignalEvent) {
	fmt.Fprintf(w, "  Source: 0x%08x  Destination: 0x%08x\n", sig.Source, sig.Destination)
}

func formatBufferDetails(w io.Writer, buf *log.BufferEvent) {
	words := make([]string, len(buf.Words))
	for i, v := range buf.Words {
		words[i] = fmt.Sprintf("0x%08x", v)
	}
	fmt.Fprintf(w, "  Node: %d  Offset: 0x%02x\n", buf.Node, buf.Offset)
	fmt.Fprintf(w, "  Words: %s\n", strings.Join(words, " "))
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	fmt.Fprintf(w, "  %d -> %d  Size: %d bytes\n", msg.Src, msg.Dst, msg.Size)
	if len(msg.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(msg.Data))
		if msg.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "signal":
		return log.LayerSignal, nil
	case "buffer":
		return log.LayerBuffer, nil
	case "channel":
		return log.LayerChannel, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be signal, buffer, or channel)", s)
	}
}

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "control":
		return log.CategoryControl, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, control, state, or error)", s)
	}
}

// ParseRoleFlag parses a role name (case-insensitive).
func ParseRoleFlag(s string) (log.Role, error) {
	switch strings.ToLower(s) {
	case "master":
		return log.RoleMaster, nil
	case "remote":
		return log.RoleRemote, nil
	case "firmware":
		return log.RoleFirmware, nil
	default:
		return 0, fmt.Errorf("invalid role: %s (must be master, remote, or firmware)", s)
	}
}

// RunView prints the events of path selected by sel.
func RunView(path string, sel Selector, output io.Writer) error {
	filter, err := sel.Filter()
	if err != nil {
		return err
	}
	_, err = scan(path, filter, func(event log.Event) error {
		formatEvent(output, event)
		return nil
	})
	return err
}
