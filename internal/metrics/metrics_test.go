package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/ans"
)

func TestRecordPlan(t *testing.T) {
	m := New()

	current := ans.NewData("juno-1")
	current.Dexes["old"] = struct{}{}
	current.Assets["juno>juno"] = ans.NativeAsset("ujuno")
	desired := ans.NewData("juno-1")
	desired.Dexes["wyndex"] = struct{}{}
	desired.Assets["juno>juno"] = ans.NativeAsset("ujuno2")

	m.RecordPlan("juno-1", ans.Diff(desired, current), current)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.pending.WithLabelValues("juno-1", "dexes", "added")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.pending.WithLabelValues("juno-1", "dexes", "removed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pending.WithLabelValues("juno-1", "assets", "updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.entries.WithLabelValues("juno-1", "assets")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.entries.WithLabelValues("juno-1", "pools")))
}

func TestRecordSync(t *testing.T) {
	m := New()
	m.RecordSync("juno-1", 3, 2*time.Second, nil)
	m.RecordSync("juno-1", 1, time.Second, fmt.Errorf("out of gas"))
	m.RecordSync("juno-1", 0, time.Second, context.Canceled)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("juno-1", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("juno-1", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("juno-1", "canceled")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.batches.WithLabelValues("juno-1")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.RecordSync("juno-1", 2, time.Second, nil)

	path := filepath.Join(t.TempDir(), "ansync.prom")
	require.NoError(t, m.WriteFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.True(t, strings.Contains(out, `ansync_sync_runs_total{chain="juno-1",result="success"} 1`), out)
	assert.Contains(t, out, "ansync_sync_batches_applied_total")
}

func TestWriteFileBadPath(t *testing.T) {
	m := New()
	m.RecordSync("juno-1", 0, time.Second, nil)
	assert.Error(t, m.WriteFile(filepath.Join(t.TempDir(), "missing", "ansync.prom")))
}
