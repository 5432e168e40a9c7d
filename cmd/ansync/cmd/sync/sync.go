package sync

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/ansync"
	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/cmd/cmdutil"
	"github.com/agentstation/ansync/internal/cmd/output"
	"github.com/agentstation/ansync/internal/config"
	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/registry"
)

// Streams are the standard streams of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Execute plans, asks for confirmation unless told not to, and syncs.
func Execute(ctx context.Context, s Streams, app application.Application, netFlags *cmdutil.NetworkFlags, flags *Flags, metrics *cmdutil.MetricsFlags) error {
	sections, err := netFlags.SelectedSections()
	if err != nil {
		return err
	}
	net, err := netFlags.Resolve(app)
	if err != nil {
		return err
	}
	return Apply(ctx, s, app, net, sections, flags, metrics)
}

// Apply syncs the given sections of net. opts are added after the client
// options the command derives, so a caller can swap the source.
func Apply(ctx context.Context, s Streams, app application.Application, net *config.Network, sections []ans.Section, flags *Flags, metrics *cmdutil.MetricsFlags, opts ...ansync.Option) error {
	format, err := cmdutil.OutputFormat(app)
	if err != nil {
		return err
	}

	if !flags.DryRun && net.State == "" && flags.Export == "" {
		return errors.NewConfigError("sync",
			"the LCD registry is read-only: pass --export to write messages for signing or --state to sync a state file",
			errors.ErrReadOnly)
	}

	// Keep stdout clean when it carries the exported messages
	out := s.Out
	if flags.Export == "-" {
		out = s.Err
	}

	if flags.Export != "" && !flags.DryRun {
		f, closeFn, err := cmdutil.CreateFile(flags.Export)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()
		opts = append(opts, ansync.WithSubmitter(registry.NewExporter(f, net.ChainID, net.ANSHost)))
	}

	client, err := app.Client(net, opts...)
	if err != nil {
		return err
	}

	if !flags.DryRun && !flags.Yes {
		plan, err := client.Plan(ctx, ansync.WithSections(sections...))
		if err != nil {
			return err
		}
		if plan.IsEmpty() {
			_, err := fmt.Fprintf(out, "%s is up to date - no changes needed\n", plan.ChainID)
			return err
		}
		if err := output.Plan(out, format, plan); err != nil {
			return err
		}
		if !Confirm(s.In, s.Err) {
			_, err := fmt.Fprintln(s.Err, "Sync cancelled")
			return err
		}
	}

	result, syncErr := client.Sync(ctx,
		ansync.WithSections(sections...),
		ansync.WithDryRun(flags.DryRun),
	)
	if result != nil {
		if err := output.Result(out, format, result); err != nil {
			return err
		}
	}
	if err := metrics.Write(app); err != nil {
		return err
	}
	return syncErr
}

// Confirm asks whether to apply the changes. Anything but y or yes,
// including a closed input, declines.
func Confirm(in io.Reader, prompt io.Writer) bool {
	_, _ = fmt.Fprint(prompt, "Apply these changes? (y/N): ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
