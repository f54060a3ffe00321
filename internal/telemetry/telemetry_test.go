package telemetry_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3b0rn/localsearch/internal/observer"
	"github.com/r3b0rn/localsearch/internal/telemetry"
)

func TestStatusReportsNotRunningWhenNoEventsYet(t *testing.T) {
	m := telemetry.NewMux(nil)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var report telemetry.StatusReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.False(t, report.Running)
	assert.Empty(t, report.RunID)
}

func TestStatusReflectsMostRecentEvent(t *testing.T) {
	m := telemetry.NewMux(nil)
	obs := m.Observer()

	obs.OnStart(observer.Event{RunID: "run-1", Runner: "hc", Status: "running"})
	obs.OnNewBest(observer.Event{RunID: "run-1", Runner: "hc", Iteration: 7, BestCost: 3.5, Status: "running"})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var report telemetry.StatusReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "hc", report.Runner)
	assert.Equal(t, 7, report.Iteration)
	assert.Equal(t, 3.5, report.BestCost)
	assert.True(t, report.Running)

	obs.OnEnd(observer.Event{RunID: "run-1", Runner: "hc", Iteration: 7, BestCost: 3.5, Status: "done"})
	resp2, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var report2 telemetry.StatusReport
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&report2))
	assert.False(t, report2.Running)
	assert.Equal(t, "done", report2.Status)
}

func TestMetricsEndpointExportsLocalsearchSeries(t *testing.T) {
	m := telemetry.NewMux(nil)
	obs := m.Observer()
	obs.OnStart(observer.Event{RunID: "run-2", Runner: "sa"})
	obs.OnMadeMove(observer.Event{RunID: "run-2", Runner: "sa"})
	obs.OnNewBest(observer.Event{RunID: "run-2", Runner: "sa", BestCost: 1})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	buf := make([]byte, 1<<16)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])
	assert.Contains(t, body, "localsearch_iterations_total")
	assert.Contains(t, body, "localsearch_new_best_total")
	assert.Contains(t, body, "localsearch_best_cost")
}

func TestTrackerSnapshotIsConcurrencySafe(t *testing.T) {
	tr := &telemetry.Tracker{}
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			tr.OnMadeMove(observer.Event{Iteration: i})
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		_ = tr.Snapshot()
	}
	<-done
	assert.GreaterOrEqual(t, tr.Snapshot().Iteration, 0)
}

func TestSnapshotElapsedSurvivesRoundTrip(t *testing.T) {
	tr := &telemetry.Tracker{}
	tr.OnNewBest(observer.Event{Elapsed: 250 * time.Millisecond})
	assert.Equal(t, 250*time.Millisecond, tr.Snapshot().Elapsed)
}
