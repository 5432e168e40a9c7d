// Package sync provides the sync command implementation.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/cmd/cmdutil"
)

// Flags holds sync-specific flags.
type Flags struct {
	DryRun bool
	Export string
	Yes    bool
}

// NewCommand creates the sync command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		netFlags *cmdutil.NetworkFlags
		metrics  *cmdutil.MetricsFlags
		flags    = &Flags{}
	)

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Bring a registry in line with the inventory",
		Long: `Sync plans the changes for a network and submits the resulting execute
messages in order: assets, contracts, channels, dexes, then pools.

The LCD endpoint can only be read. Against it, sync writes the messages as
JSON lines to --export for an external signer. With --state the messages are
applied to a local state file instead.

A sync that fails part way reports how many messages were applied; running
it again picks up from the registry's new state.`,
		Example: `  ansync sync -n juno-1 --export msgs.jsonl  # Write messages for signing
  ansync sync -n juno-1 --export - -y        # Messages to stdout, no prompt
  ansync sync -n juno-1 --state state.yaml   # Apply to a state file
  ansync sync -n juno-1 --dry-run            # Same as plan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), Streams{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			}, app, netFlags, flags, metrics)
		},
	}

	netFlags = cmdutil.AddNetworkFlags(cmd)
	metrics = cmdutil.AddMetricsFlags(cmd)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Show what would change without submitting anything")
	cmd.Flags().StringVarP(&flags.Export, "export", "e", "", "Write execute messages as JSON lines to this file (- for stdout)")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
