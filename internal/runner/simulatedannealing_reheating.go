package runner

import (
	"fmt"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

// SimulatedAnnealingReheating is the supplemented feature of SPEC_FULL.md §4
// grounded on
// _examples/original_source/src/runners/SimulatedAnnealingWithReheating.hh:
// when the run goes ReheatIdleIterations without a new best, T resets to
// ReheatFactor * StartTemperature. The base runner's temperature floor still
// ends the search whenever T cools to MinTemperature before the next reheat.
type SimulatedAnnealingReheating[I any, S any, M any, C cost.Number] struct {
	SimulatedAnnealing[I, S, M, C]

	ReheatIdleIterations int
	ReheatFactor         float64

	reheats int
}

func (r *SimulatedAnnealingReheating[I, S, M, C]) InitializeRun(ctx *Context[I, S, M, C]) error {
	if r.ReheatIdleIterations <= 0 {
		return errkind.New(errkind.IncorrectParameterValue, "sa", "reheat_idle_iterations must be > 0")
	}
	if r.ReheatFactor <= 0 {
		return errkind.New(errkind.IncorrectParameterValue, "sa", "reheat_factor must be > 0")
	}
	r.reheats = 0
	return r.SimulatedAnnealing.InitializeRun(ctx)
}

// StopCriterion reheats once the run has gone idle for ReheatIdleIterations,
// restarting the idle counter, then applies the base temperature-floor
// check: the search ends whenever T has cooled to MinTemperature between
// reheats, or right after a reheat if ReheatFactor*StartTemperature <=
// MinTemperature.
func (r *SimulatedAnnealingReheating[I, S, M, C]) StopCriterion(ctx *Context[I, S, M, C]) bool {
	if ctx.Iteration-ctx.IterationOfBest >= r.ReheatIdleIterations {
		r.SimulatedAnnealing.T = r.ReheatFactor * r.SimulatedAnnealing.StartTemperature
		r.SimulatedAnnealing.NeighborsSampled = 0
		r.SimulatedAnnealing.NeighborsAccepted = 0
		r.reheats++
		ctx.IterationOfBest = ctx.Iteration
	}
	return r.SimulatedAnnealing.StopCriterion(ctx)
}

func (r *SimulatedAnnealingReheating[I, S, M, C]) Status(ctx *Context[I, S, M, C]) string {
	return fmt.Sprintf("%s, reheats=%d", r.SimulatedAnnealing.Status(ctx), r.reheats)
}

// Reheats returns the number of times the schedule has been reheated.
func (r *SimulatedAnnealingReheating[I, S, M, C]) Reheats() int { return r.reheats }
