package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/ansync"
	"github.com/agentstation/ansync/internal/config"
	"github.com/agentstation/ansync/internal/metrics"
	"github.com/agentstation/ansync/pkg/registry"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	reg := memory.New("juno-1")
//	mock := &application.Mock{
//	    RegistryFunc: func(*config.Network) (registry.Reader, error) {
//	        return reg, nil
//	    },
//	}
//	cmd := snapshot.NewCommand(mock)
type Mock struct {
	NetworkFunc      func(chainID string) (*config.Network, error)
	RegistryFunc     func(net *config.Network) (registry.Reader, error)
	ClientFunc       func(net *config.Network, opts ...ansync.Option) (ansync.Client, error)
	MetricsFunc      func() *metrics.Metrics
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Network returns the network using the mock function or one carrying only
// the chain id.
func (m *Mock) Network(chainID string) (*config.Network, error) {
	if m.NetworkFunc != nil {
		return m.NetworkFunc(chainID)
	}
	return &config.Network{ChainID: chainID}, nil
}

// Registry returns a registry using the mock function or nil.
func (m *Mock) Registry(net *config.Network) (registry.Reader, error) {
	if m.RegistryFunc != nil {
		return m.RegistryFunc(net)
	}
	return nil, nil
}

// Client returns a client using the mock function or nil.
func (m *Mock) Client(net *config.Network, opts ...ansync.Option) (ansync.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(net, opts...)
	}
	return nil, nil
}

// Metrics returns metrics using the mock function or a fresh set.
func (m *Mock) Metrics() *metrics.Metrics {
	if m.MetricsFunc != nil {
		return m.MetricsFunc()
	}
	return metrics.New()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
