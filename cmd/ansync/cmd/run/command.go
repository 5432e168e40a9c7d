// Package run provides the run command implementation.
package run

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/ansync"
	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/cmd/cmdutil"
	"github.com/agentstation/ansync/pkg/constants"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/logging"
	"github.com/agentstation/ansync/pkg/registry"
)

// Flags holds run-specific flags.
type Flags struct {
	Interval time.Duration
	Export   string
}

// NewCommand creates the run command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		netFlags *cmdutil.NetworkFlags
		metrics  *cmdutil.MetricsFlags
		flags    = &Flags{}
	)

	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Sync periodically until interrupted",
		Long: `Run syncs a network once, then again every --interval, until it receives
SIGINT or SIGTERM. A failed run is logged and retried on the next tick.

Exported messages are appended to the --export file, one JSON line each.
With --metrics-file, Prometheus metrics are rewritten after every run for
the node exporter textfile collector.`,
		Example: `  ansync run -n juno-1 --state state.yaml --interval 10m
  ansync run -n juno-1 --export msgs.jsonl --metrics-file /var/lib/node_exporter/ansync.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, netFlags, flags, metrics)
		},
	}

	netFlags = cmdutil.AddNetworkFlags(cmd)
	metrics = cmdutil.AddMetricsFlags(cmd)
	cmd.Flags().DurationVar(&flags.Interval, "interval", constants.DefaultSyncInterval, "Time between syncs")
	cmd.Flags().StringVarP(&flags.Export, "export", "e", "", "Append execute messages as JSON lines to this file")

	return cmd
}

// Execute runs the first sync and keeps syncing until ctx is done.
func Execute(ctx context.Context, app application.Application, netFlags *cmdutil.NetworkFlags, flags *Flags, metrics *cmdutil.MetricsFlags) error {
	sections, err := netFlags.SelectedSections()
	if err != nil {
		return err
	}
	net, err := netFlags.Resolve(app)
	if err != nil {
		return err
	}
	if net.State == "" && flags.Export == "" {
		return errors.NewConfigError("run",
			"the LCD registry is read-only: pass --export to write messages for signing or --state to sync a state file",
			errors.ErrReadOnly)
	}

	syncOpts := []ansync.SyncOption{ansync.WithSections(sections...), ansync.WithTimeout(constants.SyncTimeout)}
	opts := []ansync.Option{
		ansync.WithSyncInterval(flags.Interval),
		ansync.WithAutoSyncOptions(syncOpts...),
	}
	if flags.Export != "" {
		f, err := os.OpenFile(flags.Export, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			return errors.WrapIO("open", flags.Export, err)
		}
		defer func() { _ = f.Close() }()
		opts = append(opts, ansync.WithSubmitter(registry.NewExporter(f, net.ChainID, net.ANSHost)))
	}

	client, err := app.Client(net, opts...)
	if err != nil {
		return err
	}

	logger := app.Logger().With().Str("chain", net.ChainID).Logger()
	client.OnApplied(func(result *ansync.Result, err error) {
		if err != nil {
			logger.Error().Err(err).Int("applied", result.Applied).Msg("Sync run failed")
		} else {
			logger.Info().Str("summary", result.Summary()).Msg("Sync run finished")
		}
		if err := metrics.Write(app); err != nil {
			logger.Error().Err(err).Msg("Failed to write metrics")
		}
	})

	if _, err := client.Sync(ctx, syncOpts...); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logging.Ctx(ctx).Error().Err(err).Msg("Initial sync failed")
	}

	if err := client.AutoSyncOn(); err != nil {
		return err
	}
	logger.Info().Dur("interval", flags.Interval).Msg("Waiting for the next sync")

	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	return client.AutoSyncOff()
}
