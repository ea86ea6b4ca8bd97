package boss

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/boss/internal/domain"
	"github.com/shaiso/boss/internal/runner"
)

// TestReplacedRunDoesNotClearActiveGauge: a dethroned run's driver
// finishing in the background must not zero the active-run gauge while
// the current run is still executing; only the current run finishing
// clears it.
func TestReplacedRunDoesNotClearActiveGauge(t *testing.T) {
	gate1 := filepath.Join(t.TempDir(), "gate1")
	gate2 := filepath.Join(t.TempDir(), "gate2")

	pipeline := &domain.Pipeline{Stages: []domain.Stage{{Name: "build", Tasks: []string{"slow"}}}}

	// The test waits for each run's task to spawn before starting the
	// next run, so call order maps calls 1 and 2 to runs 1 and 2.
	var calls atomic.Int32
	taskConfig := func(stage, task string) runner.Config {
		gate := gate2
		if calls.Add(1) == 1 {
			gate = gate1
		}
		return runner.Config{
			Path: "/bin/sh",
			Args: []string{"-c", fmt.Sprintf("while [ ! -f %q ]; do sleep 0.01; done", gate)},
		}
	}

	rec := freshMetrics()
	svc := New(pipeline, taskConfig, discardLogger(), rec)

	ar1 := svc.startRun()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	ar2 := svc.startRun()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, float64(1), testutil.ToFloat64(rec.ActiveRun))

	// run1 finishes in the background while run2 is still current.
	require.NoError(t, os.WriteFile(gate1, []byte("go"), 0o644))
	require.Eventually(t, func() bool { return !ar1.active.Load() }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, float64(1), testutil.ToFloat64(rec.ActiveRun))

	require.NoError(t, os.WriteFile(gate2, []byte("go"), 0o644))
	require.Eventually(t, func() bool { return !ar2.active.Load() }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(rec.ActiveRun) == 0
	}, 5*time.Second, 10*time.Millisecond)
}
