package observer

import "go.uber.org/zap"

// ZapObserver logs every lifecycle event through a *zap.SugaredLogger,
// grounded on _examples/copyleftdev-TUNDR/internal/logging/zapadapter.go's
// role of wrapping structured logging around the engine's own event types.
// The zero value is unusable; use NewZapObserver.
type ZapObserver struct {
	log *zap.SugaredLogger
}

// NewZapObserver wraps log; a nil log defaults to zap.NewNop() so runners
// can always set an Observer field without a conditional.
func NewZapObserver(log *zap.SugaredLogger) ZapObserver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return ZapObserver{log: log}
}

func (z ZapObserver) fields(e Event) []any {
	return []any{
		"run_id", e.RunID,
		"runner", e.Runner,
		"iteration", e.Iteration,
		"best_cost", e.BestCost,
		"elapsed", e.Elapsed,
		"status", e.Status,
	}
}

func (z ZapObserver) OnStart(e Event)    { z.log.Infow("run started", z.fields(e)...) }
func (z ZapObserver) OnMadeMove(e Event) { z.log.Debugw("move made", z.fields(e)...) }
func (z ZapObserver) OnNewBest(e Event)  { z.log.Infow("new best", z.fields(e)...) }
func (z ZapObserver) OnEnd(e Event)      { z.log.Infow("run ended", z.fields(e)...) }

func (z ZapObserver) OnSelect(e Event) { z.log.Debugw("move selected", z.fields(e)...) }
func (z ZapObserver) OnEvaluate(e Event, feasible bool) {
	z.log.Debugw("move evaluated", append(z.fields(e), "feasible", feasible)...)
}
func (z ZapObserver) OnAccept(e Event, accepted bool) {
	z.log.Debugw("move acceptance decided", append(z.fields(e), "accepted", accepted)...)
}
