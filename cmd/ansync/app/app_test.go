package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/agentstation/ansync"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/registry/file"
	"github.com/agentstation/ansync/pkg/registry/lcd"
)

const testInventory = `chain_id: juno-1
dexes: [wyndex, junoswap]
`

// newTestApp builds an App over an isolated Viper holding a juno-1 network
// with a local inventory directory and a state file.
func newTestApp(t *testing.T) (*App, string) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "juno-1.yaml"), []byte(testInventory), 0o644); err != nil {
		t.Fatal(err)
	}
	state := filepath.Join(dir, "state.yaml")

	v := viper.New()
	v.Set("networks", map[string]any{
		"juno-1": map[string]any{
			"inventory": dir,
			"state":     state,
		},
		"osmosis-1": map[string]any{
			"lcd_url":  "https://lcd.osmosis.example.com",
			"ans_host": "osmo1ans",
		},
	})

	logger := zerolog.Nop()
	app, err := New("1.0.0", "abc123", "2024-01-01", "test",
		WithViper(v),
		WithConfig(&Config{Format: "json"}),
		WithLogger(&logger),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app, state
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, _ := newTestApp(t)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.OutputFormat() != "json" {
		t.Errorf("OutputFormat() = %s, want json", app.OutputFormat())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Metrics() == nil {
		t.Error("Metrics() returned nil")
	}
}

// TestApp_Registry verifies the backend chosen for a network.
func TestApp_Registry(t *testing.T) {
	app, state := newTestApp(t)

	juno, err := app.Network("juno-1")
	if err != nil {
		t.Fatalf("Network() failed: %v", err)
	}
	reg, err := app.Registry(juno)
	if err != nil {
		t.Fatalf("Registry() failed: %v", err)
	}
	fr, ok := reg.(*file.Registry)
	if !ok {
		t.Fatalf("Registry() = %T, want *file.Registry", reg)
	}
	if fr.Path() != state {
		t.Errorf("Path() = %s, want %s", fr.Path(), state)
	}

	osmosis, err := app.Network("osmosis-1")
	if err != nil {
		t.Fatalf("Network() failed: %v", err)
	}
	reg, err = app.Registry(osmosis)
	if err != nil {
		t.Fatalf("Registry() failed: %v", err)
	}
	if _, ok := reg.(*lcd.Registry); !ok {
		t.Errorf("Registry() = %T, want *lcd.Registry", reg)
	}

	// A network known only by its chain id has no endpoint to read
	unknown, err := app.Network("neutron-1")
	if err != nil {
		t.Fatalf("Network() failed: %v", err)
	}
	_, err = app.Registry(unknown)
	var cfgErr *errors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Registry() error = %v, want ConfigError", err)
	}
}

// TestApp_Client verifies a client syncs the inventory into the state file.
func TestApp_Client(t *testing.T) {
	app, state := newTestApp(t)
	ctx := context.Background()

	net, err := app.Network("juno-1")
	if err != nil {
		t.Fatalf("Network() failed: %v", err)
	}
	client, err := app.Client(net)
	if err != nil {
		t.Fatalf("Client() failed: %v", err)
	}

	result, err := client.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if result.Applied != 1 {
		t.Errorf("Applied = %d, want 1", result.Applied)
	}

	data, err := file.New(state, "juno-1").Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	if len(data.Dexes) != 2 {
		t.Errorf("state has %d dexes, want 2", len(data.Dexes))
	}

	plan, err := client.Plan(ctx)
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}
	if !plan.IsEmpty() {
		t.Errorf("plan after sync = %v, want no changes", plan.Summary())
	}
}

// TestApp_Shutdown verifies shutdown stops periodic syncs.
func TestApp_Shutdown(t *testing.T) {
	app, _ := newTestApp(t)

	net, err := app.Network("juno-1")
	if err != nil {
		t.Fatalf("Network() failed: %v", err)
	}
	client, err := app.Client(net, ansync.WithAutoSync(true))
	if err != nil {
		t.Fatalf("Client() failed: %v", err)
	}

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	// Already stopped by Shutdown
	if err := client.AutoSyncOff(); err != nil {
		t.Errorf("AutoSyncOff() after Shutdown failed: %v", err)
	}
}
