// Package telemetry exposes a long-running solver process's lifecycle over
// HTTP: a Prometheus /metrics endpoint and a /status endpoint reporting the
// most recent runner event, both served off a chi mux.
//
// Grounded on _examples/copyleftdev-TUNDR/internal/server/server.go's
// Server{cfg, logger} + RegisterRoutes(chi.Router) shape, adapted from an
// optimization-job HTTP API to a single embedded solver's telemetry
// surface.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/r3b0rn/localsearch/internal/observer"
)

// StatusReport is the /status JSON body: the most recent lifecycle event
// observed, plus whether a run is currently in progress.
type StatusReport struct {
	RunID     string        `json:"run_id"`
	Runner    string        `json:"runner"`
	Iteration int           `json:"iteration"`
	BestCost  float64       `json:"best_cost"`
	Elapsed   time.Duration `json:"elapsed"`
	Status    string        `json:"status"`
	Running   bool          `json:"running"`
}

// Tracker is an observer.RunnerObserver that remembers the most recent
// event so /status has something to report; safe for concurrent use since
// the runner and the HTTP handler run on different goroutines.
type Tracker struct {
	mu      sync.RWMutex
	last    observer.Event
	running bool
}

func (t *Tracker) OnStart(e observer.Event)    { t.set(e, true) }
func (t *Tracker) OnMadeMove(e observer.Event) { t.set(e, true) }
func (t *Tracker) OnNewBest(e observer.Event)  { t.set(e, true) }
func (t *Tracker) OnEnd(e observer.Event)      { t.set(e, false) }

func (t *Tracker) set(e observer.Event, running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = e
	t.running = running
}

// Snapshot renders the tracker's current state as a StatusReport.
func (t *Tracker) Snapshot() StatusReport {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return StatusReport{
		RunID:     t.last.RunID,
		Runner:    t.last.Runner,
		Iteration: t.last.Iteration,
		BestCost:  t.last.BestCost,
		Elapsed:   t.last.Elapsed,
		Status:    t.last.Status,
		Running:   t.running,
	}
}

// Mux bundles a chi router, a dedicated Prometheus registry, and a
// PrometheusObserver + Tracker pair so a process running one or more
// solvers can expose both behind one HTTP server.
type Mux struct {
	router  chi.Router
	reg     *prometheus.Registry
	obs     *observer.PrometheusObserver
	tracker *Tracker
	log     *zap.SugaredLogger
}

// NewMux builds a Mux with its own Prometheus registry (never the global
// DefaultRegisterer, so tests can build more than one Mux per process). log
// defaults to a no-op logger, mirroring observer.NewZapObserver.
func NewMux(log *zap.SugaredLogger) *Mux {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	reg := prometheus.NewRegistry()
	m := &Mux{
		router:  chi.NewRouter(),
		reg:     reg,
		obs:     observer.NewPrometheusObserver(reg),
		tracker: &Tracker{},
		log:     log,
	}
	m.registerRoutes()
	return m
}

// Observer is the observer.RunnerObserver a Solver/TokenRingSolver should
// be given to feed this Mux's /metrics and /status surfaces; fan it into an
// observer.Multi alongside a ZapObserver if per-event logging is also
// wanted.
func (m *Mux) Observer() observer.Multi {
	return observer.Multi{m.obs, m.tracker}
}

// Handler returns the http.Handler to mount (e.g. http.ListenAndServe).
func (m *Mux) Handler() http.Handler {
	return m.router
}

func (m *Mux) registerRoutes() {
	m.router.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	m.router.Get("/status", m.handleStatus)
}

func (m *Mux) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m.tracker.Snapshot()); err != nil {
		m.log.Errorw("status encode failed", "error", err)
	}
}
