package runner

import (
	"fmt"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

// HillClimbing implements spec.md §4.4.a: random move selection, accepts
// any non-worsening move, stops after an idle-iteration bound. On
// termination current equals best (any local optimum).
type HillClimbing[I any, S any, M any, C cost.Number] struct {
	MaxIdleIterations int
}

func (h *HillClimbing[I, S, M, C]) InitializeRun(ctx *Context[I, S, M, C]) error {
	if h.MaxIdleIterations <= 0 {
		return errkind.New(errkind.IncorrectParameterValue, "hc", "max_idle_iterations must be > 0")
	}
	return nil
}

func (h *HillClimbing[I, S, M, C]) SelectMove(ctx *Context[I, S, M, C]) (M, cost.Structure[C], bool, error) {
	var zero M
	m, err := ctx.Exp.RandomMove(ctx.In, ctx.Current, ctx.Rng)
	if err != nil {
		return zero, cost.Zero[C](), false, err
	}
	return m, ctx.DeltaCost(m), true, nil
}

// AcceptableMove accepts any move whose delta cost is not worsening.
func (h *HillClimbing[I, S, M, C]) AcceptableMove(ctx *Context[I, S, M, C], m M, delta cost.Structure[C]) bool {
	return cost.Compare(delta, cost.Zero[C](), ctx.Ordering) <= 0
}

func (h *HillClimbing[I, S, M, C]) CompleteIteration(ctx *Context[I, S, M, C], accepted bool) {}

func (h *HillClimbing[I, S, M, C]) StopCriterion(ctx *Context[I, S, M, C]) bool {
	return ctx.Iteration-ctx.IterationOfBest >= h.MaxIdleIterations
}

// TerminateRun restores current to best, guaranteeing the "current equals
// best" post-condition of spec.md §4.4.a even when later lateral
// (equal-cost) moves left current at a different state than best.
func (h *HillClimbing[I, S, M, C]) TerminateRun(ctx *Context[I, S, M, C]) {
	ctx.Current = ctx.Clone(ctx.Best)
	ctx.CurrentCost = ctx.BestCost
}

func (h *HillClimbing[I, S, M, C]) Status(ctx *Context[I, S, M, C]) string {
	return fmt.Sprintf("idle=%d/%d", ctx.Iteration-ctx.IterationOfBest, h.MaxIdleIterations)
}
