package app

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentstation/ansync/cmd/ansync/cmd/plan"
	"github.com/agentstation/ansync/cmd/ansync/cmd/purge"
	"github.com/agentstation/ansync/cmd/ansync/cmd/renamedex"
	"github.com/agentstation/ansync/cmd/ansync/cmd/run"
	"github.com/agentstation/ansync/cmd/ansync/cmd/snapshot"
	synccmd "github.com/agentstation/ansync/cmd/ansync/cmd/sync"
	"github.com/agentstation/ansync/internal/cmd/cmdutil"
	"github.com/agentstation/ansync/internal/cmd/output"
	"github.com/agentstation/ansync/internal/config"
)

// NewPlanCommand creates the plan command with app dependencies.
func (a *App) NewPlanCommand() *cobra.Command {
	return plan.NewCommand(a)
}

// NewSyncCommand creates the sync command with app dependencies.
func (a *App) NewSyncCommand() *cobra.Command {
	return synccmd.NewCommand(a)
}

// NewRunCommand creates the run command with app dependencies.
func (a *App) NewRunCommand() *cobra.Command {
	return run.NewCommand(a)
}

// NewSnapshotCommand creates the snapshot command with app dependencies.
func (a *App) NewSnapshotCommand() *cobra.Command {
	return snapshot.NewCommand(a)
}

// NewPurgeCommand creates the purge command with app dependencies.
func (a *App) NewPurgeCommand() *cobra.Command {
	return purge.NewCommand(a)
}

// NewRenameDexCommand creates the rename-dex command with app dependencies.
func (a *App) NewRenameDexCommand() *cobra.Command {
	return renamedex.NewCommand(a)
}

// networkRow is one line of the networks listing.
type networkRow struct {
	Chain     string `json:"chain" yaml:"chain"`
	LCDURL    string `json:"lcd_url" yaml:"lcd_url"`
	ANSHost   string `json:"ans_host" yaml:"ans_host"`
	Inventory string `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	State     string `json:"state,omitempty" yaml:"state,omitempty"`
}

// NewNetworksCommand creates the networks command.
func (a *App) NewNetworksCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "networks",
		Aliases: []string{"nets"},
		GroupID: "management",
		Short:   "List the configured networks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmdutil.OutputFormat(a)
			if err != nil {
				return err
			}
			networks, err := config.Networks(a.viper)
			if err != nil {
				return err
			}
			if len(networks) == 0 {
				_, err := fmt.Fprintln(cmd.ErrOrStderr(), "No networks configured. Add them under the networks key of .ansync.yaml")
				return err
			}

			rows := make([]networkRow, 0, len(networks))
			for _, n := range networks {
				rows = append(rows, networkRow{
					Chain:     n.ChainID,
					LCDURL:    n.LCDURL,
					ANSHost:   n.ANSHost,
					Inventory: n.Inventory,
					State:     n.State,
				})
			}
			slices.SortFunc(rows, func(x, y networkRow) int {
				return cmp.Compare(x.Chain, y.Chain)
			})

			return output.NewFormatter(format).Format(cmd.OutOrStdout(), rows)
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if !a.config.Verbose {
				_, err := fmt.Fprintf(w, "ansync %s\n", a.version)
				return err
			}
			_, err := fmt.Fprintf(w, "ansync version %s\ncommit: %s\nbuilt: %s\nbuilt by: %s\ngo version: %s\nplatform: %s/%s\n",
				a.version, a.commit, a.date, a.builtBy,
				runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
