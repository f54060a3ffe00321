package observer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver mirrors lifecycle events into counters/gauges exported
// by internal/telemetry's mux, grounded on the collector style of
// _examples/copyleftdev-TUNDR's metrics usage. One instance is meant to be
// shared across every runner in a process; Runner is a label, not a
// per-instance field.
type PrometheusObserver struct {
	iterations *prometheus.CounterVec
	newBests   *prometheus.CounterVec
	bestCost   *prometheus.GaugeVec
	runEnds    *prometheus.CounterVec
}

// NewPrometheusObserver registers its collectors on reg and returns the
// observer. Pass prometheus.NewRegistry() (or prometheus.DefaultRegisterer
// wrapped as a Registry) from internal/telemetry.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	p := &PrometheusObserver{
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "localsearch",
			Name:      "iterations_total",
			Help:      "Runner iterations completed, labeled by runner and run_id.",
		}, []string{"runner", "run_id"}),
		newBests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "localsearch",
			Name:      "new_best_total",
			Help:      "New-best events emitted, labeled by runner and run_id.",
		}, []string{"runner", "run_id"}),
		bestCost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "localsearch",
			Name:      "best_cost",
			Help:      "Best-known cost total observed so far, labeled by runner and run_id.",
		}, []string{"runner", "run_id"}),
		runEnds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "localsearch",
			Name:      "runs_total",
			Help:      "Runs completed, labeled by runner and run_id.",
		}, []string{"runner", "run_id"}),
	}
	reg.MustRegister(p.iterations, p.newBests, p.bestCost, p.runEnds)
	return p
}

func (p *PrometheusObserver) OnStart(Event) {}

func (p *PrometheusObserver) OnMadeMove(e Event) {
	p.iterations.WithLabelValues(e.Runner, e.RunID).Inc()
}

func (p *PrometheusObserver) OnNewBest(e Event) {
	p.newBests.WithLabelValues(e.Runner, e.RunID).Inc()
	p.bestCost.WithLabelValues(e.Runner, e.RunID).Set(e.BestCost)
}

func (p *PrometheusObserver) OnEnd(e Event) {
	p.runEnds.WithLabelValues(e.Runner, e.RunID).Inc()
}
