// Package cmdutil provides shared flags and helpers for ansync commands.
package cmdutil

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/cmd/output"
	"github.com/agentstation/ansync/internal/config"
	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

// NetworkFlags select the chain a command works on and override its
// configured paths.
type NetworkFlags struct {
	Network   string
	Inventory string
	State     string
	Sections  []string
}

// AddNetworkFlags adds network selection flags to a command.
func AddNetworkFlags(cmd *cobra.Command) *NetworkFlags {
	flags := &NetworkFlags{}

	cmd.Flags().StringVarP(&flags.Network, "network", "n", "",
		"Chain id of the network (required)")
	cmd.Flags().StringVarP(&flags.Inventory, "inventory", "i", "",
		"Inventory file, directory or URL (overrides the configured inventory)")
	cmd.Flags().StringVar(&flags.State, "state", "",
		"Use a state file as the registry instead of the LCD endpoint")
	cmd.Flags().StringSliceVar(&flags.Sections, "section", nil,
		"Limit to sections: assets, contracts, channels, dexes, pools")
	_ = cmd.MarkFlagRequired("network")

	return flags
}

// Resolve looks up the network and applies the flag overrides.
func (f *NetworkFlags) Resolve(app application.Application) (*config.Network, error) {
	net, err := app.Network(f.Network)
	if err != nil {
		return nil, err
	}
	if f.Inventory != "" {
		net.Inventory = f.Inventory
	}
	if f.State != "" {
		net.State = f.State
	}
	return net, nil
}

// SelectedSections parses the --section values.
func (f *NetworkFlags) SelectedSections() ([]ans.Section, error) {
	return ans.ParseSections(f.Sections)
}

// MetricsFlags control where run metrics are written.
type MetricsFlags struct {
	File string
}

// AddMetricsFlags adds the --metrics-file flag to a command.
func AddMetricsFlags(cmd *cobra.Command) *MetricsFlags {
	flags := &MetricsFlags{}
	cmd.Flags().StringVar(&flags.File, "metrics-file", "",
		"Write Prometheus text-format metrics to this file after each run")
	return flags
}

// Write writes the application's metrics when a file is set.
func (f *MetricsFlags) Write(app application.Application) error {
	if f.File == "" {
		return nil
	}
	return app.Metrics().WriteFile(f.File)
}

// OutputFormat validates and returns the application's output format.
func OutputFormat(app application.Application) (output.Format, error) {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return "", err
	}
	return output.DetectFormat(string(format)), nil
}

// CreateFile creates path for writing, or returns stdout for "-".
func CreateFile(path string) (*os.File, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.WrapIO("create", path, err)
	}
	return f, f.Close, nil
}
