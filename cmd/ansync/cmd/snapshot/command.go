// Package snapshot provides the snapshot command implementation.
package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/cmd/cmdutil"
	"github.com/agentstation/ansync/internal/cmd/output"
	"github.com/agentstation/ansync/pkg/inventory"
)

// NewCommand creates the snapshot command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		flags *cmdutil.NetworkFlags
		save  string
	)

	cmd := &cobra.Command{
		Use:     "snapshot",
		GroupID: "management",
		Short:   "Dump the entries registered on an ANS host",
		Long: `Snapshot reads every section of a network's registry and prints it. YAML
is the default; the output uses the inventory file layout, pool unique ids
included, so it can seed a state file for offline syncs.`,
		Example: `  ansync snapshot -n juno-1                      # YAML to stdout
  ansync snapshot -n juno-1 --save state.yaml    # Seed a state file
  ansync snapshot -n juno-1 -o table             # Entry counts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), cmd.OutOrStdout(), app, flags, save)
		},
	}

	flags = cmdutil.AddNetworkFlags(cmd)
	cmd.Flags().StringVar(&save, "save", "", "Write the snapshot to this state file instead of printing it")
	return cmd
}

// Execute reads the registry and prints or saves it.
func Execute(ctx context.Context, w io.Writer, app application.Application, flags *cmdutil.NetworkFlags, save string) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	if format == "" {
		format = output.FormatYAML
	}

	net, err := flags.Resolve(app)
	if err != nil {
		return err
	}
	reg, err := app.Registry(net)
	if err != nil {
		return err
	}
	data, err := reg.Snapshot(ctx)
	if err != nil {
		return err
	}

	if save != "" {
		if err := inventory.Save(save, data); err != nil {
			return err
		}
		app.Logger().Info().Str("chain", data.ChainID).Str("path", save).Msg("Snapshot saved")
		_, err = fmt.Fprintf(w, "Saved %s snapshot to %s\n", data.ChainID, save)
		return err
	}
	return output.Snapshot(w, format, data)
}
