package runner

import (
	"fmt"
	"math"
	"time"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

// SimulatedAnnealingTimeBased wraps SimulatedAnnealing to additionally
// apportion the evaluation and wall-clock budgets across an estimated
// number of temperature steps (spec.md §4.4.c's "time-based variant").
//
// IterationBased cooling from the original
// (_examples/original_source/src/runners/SimulatedAnnealingIterationBased.hh)
// is intentionally not reimplemented separately: spec.md §4.4.c already
// folds it into the base SimulatedAnnealing's MaxNeighborsSampled budget.
type SimulatedAnnealingTimeBased[I any, S any, M any, C cost.Number] struct {
	SimulatedAnnealing[I, S, M, C]

	TemperatureRange       float64
	AllowedRunningTime     time.Duration
	NeighborsAcceptedRatio float64

	expectedTemperatures   int
	temperatureStartedAt   time.Time
	perTemperatureDuration time.Duration
}

func (tb *SimulatedAnnealingTimeBased[I, S, M, C]) InitializeRun(ctx *Context[I, S, M, C]) error {
	if tb.TemperatureRange <= 0 || tb.TemperatureRange >= 1 {
		return errkind.New(errkind.IncorrectParameterValue, "sa", "temperature_range must be in (0,1)")
	}
	if tb.AllowedRunningTime <= 0 {
		return errkind.New(errkind.IncorrectParameterValue, "sa", "allowed_running_time must be > 0")
	}
	if err := tb.SimulatedAnnealing.InitializeRun(ctx); err != nil {
		return err
	}

	tb.expectedTemperatures = int(math.Ceil(-math.Log(tb.TemperatureRange) / math.Log(tb.SimulatedAnnealing.CoolingRate)))
	if tb.expectedTemperatures < 1 {
		tb.expectedTemperatures = 1
	}
	if ctx.MaxEvaluations > 0 {
		tb.SimulatedAnnealing.MaxNeighborsSampled = ctx.MaxEvaluations / tb.expectedTemperatures
	}
	if tb.NeighborsAcceptedRatio > 0 {
		tb.SimulatedAnnealing.MaxNeighborsAccepted = int(float64(tb.SimulatedAnnealing.MaxNeighborsSampled) * tb.NeighborsAcceptedRatio)
	}
	tb.perTemperatureDuration = tb.AllowedRunningTime / time.Duration(tb.expectedTemperatures)
	tb.temperatureStartedAt = ctx.start
	return nil
}

// CompleteIteration cools on the base sample/accept budget OR once the
// per-temperature wall-clock share elapses, whichever comes first.
func (tb *SimulatedAnnealingTimeBased[I, S, M, C]) CompleteIteration(ctx *Context[I, S, M, C], accepted bool) {
	if accepted {
		tb.SimulatedAnnealing.NeighborsAccepted++
	}
	sampledBound := tb.SimulatedAnnealing.MaxNeighborsSampled > 0 &&
		tb.SimulatedAnnealing.NeighborsSampled == tb.SimulatedAnnealing.MaxNeighborsSampled
	acceptedBound := tb.SimulatedAnnealing.MaxNeighborsAccepted > 0 &&
		tb.SimulatedAnnealing.NeighborsAccepted == tb.SimulatedAnnealing.MaxNeighborsAccepted
	budgetExhausted := sampledBound || acceptedBound
	timeExhausted := time.Since(tb.temperatureStartedAt) >= tb.perTemperatureDuration
	if budgetExhausted || timeExhausted {
		tb.SimulatedAnnealing.cool()
		tb.temperatureStartedAt = time.Now()
	}
}

// StopCriterion triggers on either the base temperature floor or the
// overall wall-clock allowance being exceeded.
func (tb *SimulatedAnnealingTimeBased[I, S, M, C]) StopCriterion(ctx *Context[I, S, M, C]) bool {
	return tb.SimulatedAnnealing.StopCriterion(ctx) || time.Since(ctx.start) >= tb.AllowedRunningTime
}

func (tb *SimulatedAnnealingTimeBased[I, S, M, C]) Status(ctx *Context[I, S, M, C]) string {
	return fmt.Sprintf("%s, elapsed=%s/%s", tb.SimulatedAnnealing.Status(ctx), time.Since(ctx.start), tb.AllowedRunningTime)
}
