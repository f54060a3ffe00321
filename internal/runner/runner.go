// Package runner implements MoveRunner (spec.md §4.4): the shared
// single-trajectory search loop plus the three hook-based policies
// HillClimbing, TabuSearch and SimulatedAnnealing.
//
// Per spec.md §9's design note ("flatten the Runner → MoveRunner →
// SimulatedAnnealing → SimulatedAnnealingTimeBased hierarchy to a Runner
// trait with six hook methods plus a shared RunnerContext"), Context holds
// every piece of mutable state the loop needs (current/best state and
// cost, iteration counters, the RNG, observers) and Runner is the six-method
// hook interface a concrete policy implements; Go drives the loop exactly as
// spec.md §4.4 describes it.
//
// Grounded on the teacher's Solve-loop shape
// (r3b0rn-acc-flowShop/internal/{sa,ts}/*.go: ctx.Err() polled at the top of
// each iteration, a running best/current pair, time.Since(start) duration
// tracking) generalized from a flow-shop-specific loop to the
// state/move/cost-generic one this spec requires.
package runner

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
	"github.com/r3b0rn/localsearch/internal/neighborhood"
	"github.com/r3b0rn/localsearch/internal/observer"
)

// Context is the shared state every concrete runner operates on: the
// problem input, its explorer, current/best state and cost, iteration
// counters, RNG, and observer dispatch (spec.md §9's RunnerContext).
type Context[I any, S any, M any, C cost.Number] struct {
	In       I
	Exp      neighborhood.Explorer[I, S, M, C]
	Ordering cost.Ordering
	// Clone must return an independent copy of a state value; required
	// whenever S holds reference-typed fields (slices, maps, pointers) that
	// MakeMove mutates in place, since a bare Go assignment only copies the
	// header (see internal/multimodal.CartesianProduct.Clone for the same
	// requirement).
	Clone func(S) S

	Current     S
	CurrentCost cost.Structure[C]
	Best        S
	BestCost    cost.Structure[C]

	Iteration       int
	IterationOfBest int
	Evaluations     int

	MaxIterations  int // 0 = unbounded
	MaxEvaluations int // 0 = unbounded

	Rng *rand.Rand

	RunID    string
	Name     string
	Observer observer.RunnerObserver
	MoveObs  observer.MoveObserver

	// Stop, when non-nil, is polled at the top of every loop iteration
	// (spec.md §5's cooperative cancellation contract). The solver driver
	// owns the atomic.Bool and may set it from a timeout goroutine.
	Stop *atomic.Bool

	start time.Time
}

// NewContext builds a Context seeded at the given initial state; the caller
// (typically the solver driver) is responsible for having already assigned
// CurrentCost/BestCost via the problem's StateManager.
func NewContext[I any, S any, M any, C cost.Number](in I, exp neighborhood.Explorer[I, S, M, C], clone func(S) S, rng *rand.Rand) *Context[I, S, M, C] {
	return &Context[I, S, M, C]{
		In:       in,
		Exp:      exp,
		Ordering: cost.Flat,
		Clone:    clone,
		Rng:      rng,
		Observer: observer.Nop{},
		MoveObs:  observer.Nop{},
	}
}

func (c *Context[I, S, M, C]) stopRequested() bool {
	return c.Stop != nil && c.Stop.Load()
}

func (c *Context[I, S, M, C]) maxIterationsExpired() bool {
	return c.MaxIterations > 0 && c.Iteration >= c.MaxIterations
}

func (c *Context[I, S, M, C]) maxEvaluationsExpired() bool {
	return c.MaxEvaluations > 0 && c.Evaluations >= c.MaxEvaluations
}

// DeltaCost evaluates m against the current state and counts the
// evaluation, so every concrete runner's select_move shares one counting
// path instead of incrementing Evaluations by hand.
func (c *Context[I, S, M, C]) DeltaCost(m M) cost.Structure[C] {
	c.Evaluations++
	return c.Exp.DeltaCost(c.In, c.Current, m, nil)
}

func (c *Context[I, S, M, C]) event(status string) observer.Event {
	return observer.Event{
		RunID:     c.RunID,
		Runner:    c.Name,
		Iteration: c.Iteration,
		BestCost:  float64(c.BestCost.Total),
		Elapsed:   time.Since(c.start),
		Status:    status,
	}
}

// Runner is the six-hook trait every concrete policy implements (spec.md
// §9). SelectMove returns ok == false (no error) when it legitimately found
// no candidate this iteration without the neighborhood itself being empty
// (e.g. every candidate was tabu with no aspiration); it returns a non-nil
// error only for errkind.EmptyNeighborhood (propagated as end-of-search) or
// a genuine misconfiguration.
type Runner[I any, S any, M any, C cost.Number] interface {
	InitializeRun(ctx *Context[I, S, M, C]) error
	SelectMove(ctx *Context[I, S, M, C]) (m M, delta cost.Structure[C], ok bool, err error)
	AcceptableMove(ctx *Context[I, S, M, C], m M, delta cost.Structure[C]) bool
	CompleteIteration(ctx *Context[I, S, M, C], accepted bool)
	StopCriterion(ctx *Context[I, S, M, C]) bool
	TerminateRun(ctx *Context[I, S, M, C])
	Status(ctx *Context[I, S, M, C]) string
}

// Go drives the main loop of spec.md §4.4 to completion:
//
//	initialize_run
//	while not stop_criterion and not interrupted and not max_evaluations_expired and not max_iterations_expired:
//	    select_move
//	    if acceptable_move: make_move; update cost; complete_iteration; NEW_BEST?
//	    else: complete_iteration (no-make)
//	terminate_run
//
// Cancellation is cooperative: ctx.Stop is polled once per iteration and the
// loop exits within that iteration, never mid-make_move (spec.md §5).
func Go[I any, S any, M any, C cost.Number](ctx *Context[I, S, M, C], r Runner[I, S, M, C]) error {
	ctx.start = time.Now()

	if err := r.InitializeRun(ctx); err != nil {
		return err
	}
	ctx.Observer.OnStart(ctx.event(r.Status(ctx)))

	for !r.StopCriterion(ctx) && !ctx.stopRequested() && !ctx.maxEvaluationsExpired() && !ctx.maxIterationsExpired() {
		ctx.MoveObs.OnSelect(ctx.event(r.Status(ctx)))
		m, delta, ok, err := r.SelectMove(ctx)
		if err != nil {
			if errkind.Of(err, errkind.EmptyNeighborhood) {
				break
			}
			return err
		}

		accepted := ok && r.AcceptableMove(ctx, m, delta)
		ctx.MoveObs.OnAccept(ctx.event(r.Status(ctx)), accepted)

		if accepted {
			ctx.Exp.MakeMove(ctx.In, &ctx.Current, m)
			ctx.CurrentCost.AddAssign(delta)
			r.CompleteIteration(ctx, true)

			if cost.Compare(ctx.CurrentCost, ctx.BestCost, ctx.Ordering) < 0 {
				ctx.Best = ctx.Clone(ctx.Current)
				ctx.BestCost = cost.Clone(ctx.CurrentCost)
				ctx.IterationOfBest = ctx.Iteration
				ctx.Observer.OnNewBest(ctx.event(r.Status(ctx)))
			}
		} else {
			r.CompleteIteration(ctx, false)
		}

		ctx.Iteration++
		ctx.Observer.OnMadeMove(ctx.event(r.Status(ctx)))
	}

	r.TerminateRun(ctx)
	ctx.Observer.OnEnd(ctx.event(r.Status(ctx)))
	return nil
}
