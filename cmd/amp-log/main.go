// Command amp-log views and analyzes AMP protocol capture files.
//
// Capture files are written by amp-sim with the -protocol-log flag.
//
// Usage:
//
//	amp-log <command> [flags] <file.alog>
//
// Commands:
//
//	view     View events in human-readable form
//	export   Export events to JSONL or CSV
//	filter   Write matching events to a new capture file
//	stats    Show statistics about the capture
//
// Examples:
//
//	# View only interrupt traffic
//	amp-log view --layer signal sim.alog
//
//	# View what the remote saw on the echo channel
//	amp-log view --role remote --channel rpmsg-openamp-demo-channel sim.alog
//
//	# Keep only the firmware's callbacks
//	amp-log filter --role firmware -o pm.alog sim.alog
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loserking/embeddedsw/cmd/amp-log/commands"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "amp-log",
		Short:        "AMP protocol log analyzer",
		SilenceUsage: true,
	}
	root.AddCommand(newViewCmd(), newExportCmd(), newFilterCmd(), newStatsCmd())
	return root
}

func newViewCmd() *cobra.Command {
	var sel commands.Selector

	cmd := &cobra.Command{
		Use:   "view [flags] <file.alog>",
		Short: "View events in human-readable form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunView(args[0], sel, cmd.OutOrStdout())
		},
	}
	selectorFlags(cmd, &sel)
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export [flags] <file.alog>",
		Short: "Export events to JSONL or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunExport(args[0], format, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newFilterCmd() *cobra.Command {
	var (
		output string
		sel    commands.Selector
	)

	cmd := &cobra.Command{
		Use:   "filter [flags] <file.alog>",
		Short: "Write matching events to a new capture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := commands.RunFilter(args[0], output, sel)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filtered %d events to %s\n", n, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (required)")
	_ = cmd.MarkFlagRequired("output")
	selectorFlags(cmd, &sel)
	return cmd
}

// selectorFlags registers the event selection flags shared by view and filter.
func selectorFlags(cmd *cobra.Command, sel *commands.Selector) {
	f := cmd.Flags()
	f.StringVar(&sel.SessionID, "session", "", "Filter by session ID")
	f.StringVar(&sel.Channel, "channel", "", "Filter by channel name")
	f.StringVar(&sel.Since, "since", "", "Keep events at or after this time (RFC3339)")
	f.StringVar(&sel.Until, "until", "", "Keep events before this time (RFC3339)")
	f.StringVar(&sel.Layer, "layer", "", "Filter by layer (signal, buffer, channel)")
	f.StringVar(&sel.Direction, "direction", "", "Filter by direction (in, out)")
	f.StringVar(&sel.Category, "category", "", "Filter by category (message, control, state, error)")
	f.StringVar(&sel.Role, "role", "", "Filter by role (master, remote, firmware)")
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file.alog>",
		Short: "Show statistics about the capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunStats(args[0], cmd.OutOrStdout())
		},
	}
}
