// Package purge provides the purge command implementation.
package purge

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/ansync"
	synccmd "github.com/agentstation/ansync/cmd/ansync/cmd/sync"
	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/cmd/cmdutil"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/registry"
)

// Flags holds purge-specific flags.
type Flags struct {
	synccmd.Flags
	Sure bool
}

// NewCommand creates the purge command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		netFlags *cmdutil.NetworkFlags
		metrics  *cmdutil.MetricsFlags
		flags    = &Flags{}
	)

	cmd := &cobra.Command{
		Use:     "purge",
		GroupID: "management",
		Short:   "Remove every entry of registry sections",
		Long: `Purge removes every entry registered in the sections named with --section,
whatever the inventory says. Removals are chunked like a sync: 20 contracts
or 15 pools per message.

This cannot be undone by ansync: re-registered pools get new unique ids.
Pass --yes-im-sure to submit anything; --dry-run shows the plan without it.`,
		Example: `  ansync purge -n pion-1 --section pools --dry-run
  ansync purge -n pion-1 --section contracts --export msgs.jsonl --yes-im-sure`,
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
	_ = cmd.MarkFlagRequired("section")
	metrics = cmdutil.AddMetricsFlags(cmd)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Show what would be removed without submitting anything")
	cmd.Flags().StringVarP(&flags.Export, "export", "e", "", "Write execute messages as JSON lines to this file (- for stdout)")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&flags.Sure, "yes-im-sure", false, "Confirm that every entry of the sections is to be removed")

	return cmd
}

// Execute removes every entry of the selected sections.
func Execute(ctx context.Context, s synccmd.Streams, app application.Application, netFlags *cmdutil.NetworkFlags, flags *Flags, metrics *cmdutil.MetricsFlags) error {
	if len(netFlags.Sections) == 0 {
		return errors.NewValidationError("section", nil, "name the sections to purge")
	}
	if !flags.Sure && !flags.DryRun {
		return errors.NewValidationError("yes-im-sure", false, "purge removes every entry of a section: pass --yes-im-sure to go ahead")
	}
	sections, err := netFlags.SelectedSections()
	if err != nil {
		return err
	}
	net, err := netFlags.Resolve(app)
	if err != nil {
		return err
	}
	reg, err := app.Registry(net)
	if err != nil {
		return err
	}

	src := registry.NewEditSource(reg, registry.Purge(sections...))
	return synccmd.Apply(ctx, s, app, net, sections, &flags.Flags, metrics, ansync.WithSource(src))
}
