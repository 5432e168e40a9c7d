// Package app provides the application context and dependency management
// for the ansync CLI. It centralizes configuration, logging, metrics and
// the construction of sync clients for the configured networks.
package app

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/agentstation/ansync"
	"github.com/agentstation/ansync/internal/config"
	"github.com/agentstation/ansync/internal/metrics"
	"github.com/agentstation/ansync/internal/transport"
	"github.com/agentstation/ansync/pkg/constants"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/inventory"
	"github.com/agentstation/ansync/pkg/registry"
	"github.com/agentstation/ansync/pkg/registry/file"
	"github.com/agentstation/ansync/pkg/registry/lcd"
)

// App represents the ansync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config
	viper  *viper.Viper

	// Logger
	logger *zerolog.Logger

	// Metrics shared by every client the app creates
	metrics *metrics.Metrics

	// Clients created so far, stopped on shutdown
	mu      sync.Mutex
	clients []ansync.Client
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the global Viper
// instance, which can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		viper:   viper.GetViper(),
		metrics: metrics.New(),
	}

	// Apply any custom options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		cfg, err := LoadConfig(app.viper)
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = cfg
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the output format selected by flag or config.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Metrics returns the metrics every client records to.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Network resolves the configuration of a chain.
func (a *App) Network(chainID string) (*config.Network, error) {
	return config.LookupNetwork(a.viper, chainID)
}

// Registry returns the registry of a network. A configured state file wins
// over the LCD endpoint.
func (a *App) Registry(net *config.Network) (registry.Reader, error) {
	if net.State != "" {
		return file.New(net.State, net.ChainID), nil
	}
	if err := net.ValidateRemote(); err != nil {
		return nil, err
	}
	client, err := net.Transport()
	if err != nil {
		return nil, err
	}
	return lcd.New(net.ChainID, net.LCDURL, net.ANSHost,
		lcd.WithClient(client),
		lcd.WithPageSize(net.PageSize),
	), nil
}

// Source returns the inventory source of a network. URLs are fetched,
// anything else is read from disk.
func (a *App) Source(net *config.Network) inventory.Source {
	path := net.Inventory
	if path == "" {
		path = constants.DefaultInventoryPath
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return inventory.NewRemoteSource(transport.New(), path, net.ChainID)
	}
	return inventory.NewPathSource(path, net.ChainID)
}

// Client returns a sync client for a network. opts are applied after the
// ones derived from the network configuration, so they take precedence.
func (a *App) Client(net *config.Network, opts ...ansync.Option) (ansync.Client, error) {
	reg, err := a.Registry(net)
	if err != nil {
		return nil, err
	}

	base := []ansync.Option{
		ansync.WithSource(a.Source(net)),
		ansync.WithRegistry(reg),
		ansync.WithChunkSizes(net.ChunkSizes),
		ansync.WithMetrics(a.metrics),
	}
	client, err := ansync.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", net.ChainID, err)
	}

	a.mu.Lock()
	a.clients = append(a.clients, client)
	a.mu.Unlock()
	return client, nil
}

// Shutdown stops periodic syncs of every client the app created.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	clients := a.clients
	a.clients = nil
	a.mu.Unlock()

	for _, c := range clients {
		if err := c.AutoSyncOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop auto-sync during shutdown")
		}
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithViper sets the Viper instance networks are read from.
func WithViper(v *viper.Viper) Option {
	return func(a *App) error {
		a.viper = v
		return nil
	}
}
