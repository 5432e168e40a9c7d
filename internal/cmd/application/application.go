// Package application provides the application interface for ansync commands.
//
// The Application interface is the contract between the application layer and
// command implementations. Commands accept it rather than the concrete App,
// so they can be tested with Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            net, err := app.Network(chainID)
//	            if err != nil {
//	                return err
//	            }
//	            client, err := app.Client(net)
//	            // ...
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/ansync"
	"github.com/agentstation/ansync/internal/config"
	"github.com/agentstation/ansync/internal/metrics"
	"github.com/agentstation/ansync/pkg/registry"
)

// Application provides what commands need from the running application.
type Application interface {
	// Network resolves the configuration of a chain.
	Network(chainID string) (*config.Network, error)

	// Registry returns the registry of a network: a state file when one is
	// set, the LCD endpoint otherwise.
	Registry(net *config.Network) (registry.Reader, error)

	// Client returns a sync client for a network. opts are applied after
	// the ones derived from the network configuration.
	Client(net *config.Network, opts ...ansync.Option) (ansync.Client, error)

	// Metrics returns the metrics every client records to.
	Metrics() *metrics.Metrics

	Logger() *zerolog.Logger
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
