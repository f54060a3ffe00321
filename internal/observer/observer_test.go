package observer_test

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/r3b0rn/localsearch/internal/observer"
)

func TestNopIsSafeZeroValue(t *testing.T) {
	var n observer.Nop
	e := observer.Event{}
	n.OnStart(e)
	n.OnMadeMove(e)
	n.OnNewBest(e)
	n.OnEnd(e)
	n.OnSelect(e)
	n.OnEvaluate(e, true)
	n.OnAccept(e, false)
}

type recordingObserver struct {
	starts, ends, newBests int
}

func (r *recordingObserver) OnStart(observer.Event)    { r.starts++ }
func (r *recordingObserver) OnMadeMove(observer.Event) {}
func (r *recordingObserver) OnNewBest(observer.Event)  { r.newBests++ }
func (r *recordingObserver) OnEnd(observer.Event)      { r.ends++ }

func TestMultiFansOutToEveryMember(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}
	m := observer.Multi{a, b}

	e := observer.Event{Runner: "hc", RunID: "r1"}
	m.OnStart(e)
	m.OnNewBest(e)
	m.OnEnd(e)

	for _, r := range []*recordingObserver{a, b} {
		assert.Equal(t, 1, r.starts)
		assert.Equal(t, 1, r.newBests)
		assert.Equal(t, 1, r.ends)
	}
}

func TestZapObserverAcceptsNilLogger(t *testing.T) {
	z := observer.NewZapObserver(nil)
	assert.NotPanics(t, func() {
		z.OnStart(observer.Event{Runner: "hc"})
		z.OnNewBest(observer.Event{Runner: "hc", BestCost: 3})
		z.OnAccept(observer.Event{Runner: "hc"}, true)
		z.OnEnd(observer.Event{Runner: "hc"})
	})
}

func TestPrometheusObserverTracksIterationsAndBestCost(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := observer.NewPrometheusObserver(reg)

	e := observer.Event{Runner: "sa", RunID: "run-1", BestCost: 42}
	p.OnMadeMove(e)
	p.OnMadeMove(e)
	p.OnNewBest(e)
	p.OnEnd(e)

	families, err := reg.Gather()
	require.NoError(t, err)

	metrics := map[string][]*dto.Metric{}
	for _, mf := range families {
		metrics[mf.GetName()] = mf.GetMetric()
	}

	require.Len(t, metrics["localsearch_iterations_total"], 1)
	assert.Equal(t, 2.0, metrics["localsearch_iterations_total"][0].GetCounter().GetValue())

	require.Len(t, metrics["localsearch_new_best_total"], 1)
	assert.Equal(t, 1.0, metrics["localsearch_new_best_total"][0].GetCounter().GetValue())

	require.Len(t, metrics["localsearch_best_cost"], 1)
	assert.Equal(t, 42.0, metrics["localsearch_best_cost"][0].GetGauge().GetValue())

	require.Len(t, metrics["localsearch_runs_total"], 1)
	assert.Equal(t, 1.0, metrics["localsearch_runs_total"][0].GetCounter().GetValue())
}
