// Package renamedex provides the rename-dex command implementation.
package renamedex

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/ansync"
	synccmd "github.com/agentstation/ansync/cmd/ansync/cmd/sync"
	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/cmd/cmdutil"
	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/registry"
)

// Flags holds rename-dex flags.
type Flags struct {
	synccmd.Flags
	From string
	To   string
}

// NewCommand creates the rename-dex command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		netFlags *cmdutil.NetworkFlags
		metrics  *cmdutil.MetricsFlags
		flags    = &Flags{}
	)

	cmd := &cobra.Command{
		Use:     "rename-dex",
		GroupID: "management",
		Short:   "Move every pool of a dex to a new dex name",
		Long: `Rename-dex registers the --to dex and re-registers every pool of the --from
dex under it. The host cannot change a pool in place, so each pool is
removed and added again with a new unique id. The old dex name stays
registered; purge or sync removes it.`,
		Example: `  ansync rename-dex -n juno-1 --from wynd --to wyndex --dry-run
  ansync rename-dex -n juno-1 --from wynd --to wyndex --export msgs.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), synccmd.Streams{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			}, app, netFlags, flags, metrics)
		},
	}

	netFlags = cmdutil.AddNetworkFlags(cmd)
	_ = cmd.Flags().MarkHidden("inventory")
	_ = cmd.Flags().MarkHidden("section")
	metrics = cmdutil.AddMetricsFlags(cmd)
	cmd.Flags().StringVar(&flags.From, "from", "", "Dex whose pools are moved (required)")
	cmd.Flags().StringVar(&flags.To, "to", "", "Dex the pools are moved to (required)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Show the changes without submitting anything")
	cmd.Flags().StringVarP(&flags.Export, "export", "e", "", "Write execute messages as JSON lines to this file (- for stdout)")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// Execute moves the pools of flags.From to flags.To.
func Execute(ctx context.Context, s synccmd.Streams, app application.Application, netFlags *cmdutil.NetworkFlags, flags *Flags, metrics *cmdutil.MetricsFlags) error {
	net, err := netFlags.Resolve(app)
	if err != nil {
		return err
	}
	reg, err := app.Registry(net)
	if err != nil {
		return err
	}

	src := registry.NewEditSource(reg, registry.RenameDex(flags.From, flags.To))
	sections := []ans.Section{ans.SectionDexes, ans.SectionPools}
	return synccmd.Apply(ctx, s, app, net, sections, &flags.Flags, metrics, ansync.WithSource(src))
}
