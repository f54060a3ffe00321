package solver

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/neighborhood"
	"github.com/r3b0rn/localsearch/internal/observer"
	"github.com/r3b0rn/localsearch/internal/runner"
	"github.com/r3b0rn/localsearch/internal/state"
)

// TokenRingSolver is the supplemented feature of SPEC_FULL.md §4, grounded
// on _examples/original_source/include/easylocal/solvers/tokenringsearch.hh
// and src/solvers/MultiRunnerSolver.hh: it hands the current state to a
// sequence of runners in round-robin, each one continuing from where the
// previous left off, until a full round passes without any runner
// improving the best state.
type TokenRingSolver[I any, S any, M any, C cost.Number] struct {
	In       I
	Manager  *state.Manager[I, S, C]
	Exp      neighborhood.Explorer[I, S, M, C]
	Runners  []runner.Runner[I, S, M, C]
	Names    []string // parallel to Runners; optional, used for Event.Runner
	Ordering cost.Ordering
	Clone    func(S) S
	Rng      *rand.Rand

	MaxRounds int // 0 = unbounded, stop only when a round makes no improvement

	Observer     observer.RunnerObserver
	MoveObserver observer.MoveObserver

	it Interruptible
}

// Resolve runs the token-ring loop starting from initial, returning the
// best state the ring found once a full round passes without improvement
// (or MaxRounds is reached, if set).
func (t *TokenRingSolver[I, S, M, C]) Resolve(initial S) (Result[S, C], error) {
	start := time.Now()

	current := t.Clone(initial)
	currentCost := t.Manager.CostFunctionComponents(t.In, current, nil)
	runID := uuid.NewString()

	round := 0
	for {
		roundStartCost := cost.Clone(currentCost)

		for i, r := range t.Runners {
			ctx := runner.NewContext[I, S, M, C](t.In, t.Exp, t.Clone, t.Rng)
			ctx.Ordering = t.Ordering
			ctx.Current = current
			ctx.CurrentCost = cost.Clone(currentCost)
			ctx.Best = t.Clone(current)
			ctx.BestCost = cost.Clone(currentCost)
			ctx.RunID = runID
			if i < len(t.Names) {
				ctx.Name = t.Names[i]
			}
			ctx.Observer = t.observerOrNop()
			ctx.MoveObs = t.moveObserverOrNop()

			var runErr error
			t.it.Run(0, func() {
				ctx.Stop = t.it.Stop
				runErr = runner.Go[I, S, M, C](ctx, r)
			})
			if runErr != nil {
				return Result[S, C]{}, runErr
			}

			current = ctx.Best
			currentCost = ctx.BestCost
		}

		round++
		if cost.Compare(currentCost, roundStartCost, t.Ordering) >= 0 {
			break
		}
		if t.MaxRounds > 0 && round >= t.MaxRounds {
			break
		}
	}

	return Result[S, C]{
		Output:    current,
		Cost:      currentCost,
		WallClock: time.Since(start),
	}, nil
}

// RaiseTimeout forces early termination of whichever runner in the ring is
// currently active.
func (t *TokenRingSolver[I, S, M, C]) RaiseTimeout() {
	t.it.RaiseTimeout()
}

func (t *TokenRingSolver[I, S, M, C]) observerOrNop() observer.RunnerObserver {
	if t.Observer != nil {
		return t.Observer
	}
	return observer.Nop{}
}

func (t *TokenRingSolver[I, S, M, C]) moveObserverOrNop() observer.MoveObserver {
	if t.MoveObserver != nil {
		return t.MoveObserver
	}
	return observer.Nop{}
}
