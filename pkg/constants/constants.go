// Package constants provides shared constants used throughout the ansync codebase.
// This includes timeouts, batch limits, file permissions and other configuration
// values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to chain endpoints
	DefaultHTTPTimeout = 30 * time.Second

	// SyncTimeout is the default timeout for a single sync run
	SyncTimeout = 10 * time.Minute

	// DefaultSyncInterval is the default interval between periodic syncs
	DefaultSyncInterval = 1 * time.Hour

	// ShutdownTimeout is how long the CLI waits for cleanup after an error
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Registry query and batch limits. The chunk sizes follow what the ANS host
// contract accepts per execute message without exceeding the block gas limit.
const (
	// DefaultPageSize is the page size used for paginated registry queries
	DefaultPageSize = 25

	// MaxPageSize is the largest page the ANS host contract will return
	MaxPageSize = 25

	// DefaultAssetChunkSize is the number of assets per update message
	DefaultAssetChunkSize = 25

	// DefaultContractChunkSize is the number of contracts per update message
	DefaultContractChunkSize = 20

	// DefaultChannelChunkSize is the number of channels per update message
	DefaultChannelChunkSize = 25

	// DefaultDexChunkSize is the number of dexes per update message
	DefaultDexChunkSize = 25

	// DefaultPoolChunkSize is the number of pools per update message
	DefaultPoolChunkSize = 15
)

// Path constants
const (
	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".ansync"

	// DefaultInventoryPath is the default directory holding scraped inventory files
	DefaultInventoryPath = "./out"

	// DefaultStatePath is the default file used by the file-backed registry
	DefaultStatePath = "./state.yaml"
)

// EnvPrefix is the prefix for ansync environment variables (ANSYNC_LOG_LEVEL, ...)
const EnvPrefix = "ANSYNC"
