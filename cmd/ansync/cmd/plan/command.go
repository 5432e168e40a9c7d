// Package plan provides the plan command implementation.
package plan

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/ansync"
	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/cmd/cmdutil"
	"github.com/agentstation/ansync/internal/cmd/output"
)

// NewCommand creates the plan command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		flags   *cmdutil.NetworkFlags
		metrics *cmdutil.MetricsFlags
	)

	cmd := &cobra.Command{
		Use:     "plan",
		GroupID: "core",
		Short:   "Show what a sync would change",
		Long: `Plan compares the inventory of a network with the entries registered on its
ANS host and prints the changes per section together with the execute
messages a sync would submit. Nothing is submitted.`,
		Example: `  ansync plan -n juno-1                       # Plan against the LCD endpoint
  ansync plan -n juno-1 -i ./out              # Use a local scrape directory
  ansync plan -n juno-1 --state state.yaml    # Plan against a state file
  ansync plan -n juno-1 --section pools -o wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), cmd.OutOrStdout(), app, flags, metrics)
		},
	}

	flags = cmdutil.AddNetworkFlags(cmd)
	metrics = cmdutil.AddMetricsFlags(cmd)
	return cmd
}

// Execute computes and prints the plan.
func Execute(ctx context.Context, w io.Writer, app application.Application, flags *cmdutil.NetworkFlags, metrics *cmdutil.MetricsFlags) error {
	format, err := cmdutil.OutputFormat(app)
	if err != nil {
		return err
	}
	sections, err := flags.SelectedSections()
	if err != nil {
		return err
	}
	net, err := flags.Resolve(app)
	if err != nil {
		return err
	}

	client, err := app.Client(net)
	if err != nil {
		return err
	}
	plan, err := client.Plan(ctx, ansync.WithSections(sections...))
	if err != nil {
		return err
	}

	if err := output.Plan(w, format, plan); err != nil {
		return err
	}
	return metrics.Write(app)
}
