// Package solver implements the Solver driver of spec.md §4.5: build an
// initial State, run a Runner's Go loop directly or under a timeout via
// Interruptible, and materialize the result. TokenRingSolver is the
// supplemented multi-runner variant of SPEC_FULL.md §4.
package solver

import (
	"time"

	"github.com/google/uuid"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
	"github.com/r3b0rn/localsearch/internal/neighborhood"
	"github.com/r3b0rn/localsearch/internal/observer"
	"github.com/r3b0rn/localsearch/internal/runner"
	"github.com/r3b0rn/localsearch/internal/state"

	"math/rand"
)

// Config holds the solver-prefixed parameters of spec.md §6: init_trials,
// random_state, timeout.
type Config struct {
	// InitTrials is the number of states sampled when RandomState is true
	// (default 1, spec.md §6).
	InitTrials int
	// RandomState selects sampling (true) vs greedy construction (false)
	// for the initial state when no explicit initial solution is given.
	RandomState bool
	// Timeout is the wall-clock budget for a run; 0 means unset ("run to
	// natural stop").
	Timeout time.Duration
}

// Validate applies the domain constraints of spec.md §6/§7: a negative
// InitTrials or Timeout is a misconfiguration (errkind.IncorrectParameterValue),
// fatal before the run starts.
func (c Config) Validate() error {
	if c.InitTrials < 0 {
		return errkind.New(errkind.IncorrectParameterValue, "solver", "init_trials must be >= 0")
	}
	if c.Timeout < 0 {
		return errkind.New(errkind.IncorrectParameterValue, "solver", "timeout must be >= 0")
	}
	return nil
}

// Result is the Solver's return value: the materialized output state, its
// cost components, and the wall-clock duration of the run (spec.md §4.5's
// "(output, cost_components, wall_clock_seconds)").
type Result[S any, C cost.Number] struct {
	Output    S
	Cost      cost.Structure[C]
	WallClock time.Duration
}

// Solver is the driver of spec.md §4.5: it owns a StateManager and a
// Runner (grounded on spec.md §2's "a Solver owns a StateManager and a
// runner"), builds the current/best State pair, and runs the runner's Go
// loop under an Interruptible timeout.
type Solver[I any, S any, M any, C cost.Number] struct {
	Cfg Config

	In       I
	Manager  *state.Manager[I, S, C]
	Exp      neighborhood.Explorer[I, S, M, C]
	Runner   runner.Runner[I, S, M, C]
	Ordering cost.Ordering
	Clone    func(S) S
	Rng      *rand.Rand

	Name           string
	Observer       observer.RunnerObserver
	MoveObserver   observer.MoveObserver
	MaxIterations  int
	MaxEvaluations int

	it Interruptible
}

// New builds a Solver, validating cfg per spec.md §7 (IncorrectParameterValue
// is fatal for the run, not the process — the caller decides what to do with
// a non-nil error, matching spec.md §6's "non-zero [exit code] only when a
// misconfigured parameter prevented start").
func New[I any, S any, M any, C cost.Number](
	cfg Config,
	in I,
	manager *state.Manager[I, S, C],
	exp neighborhood.Explorer[I, S, M, C],
	r runner.Runner[I, S, M, C],
	clone func(S) S,
	rng *rand.Rand,
) (*Solver[I, S, M, C], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver[I, S, M, C]{
		Cfg:          cfg,
		In:           in,
		Manager:      manager,
		Exp:          exp,
		Runner:       r,
		Ordering:     manager.Ordering,
		Clone:        clone,
		Rng:          rng,
		Observer:     observer.Nop{},
		MoveObserver: observer.Nop{},
	}, nil
}

// Solve builds a fresh initial state per Cfg.RandomState/InitTrials and runs
// the search (spec.md §4.5's solve()).
func (s *Solver[I, S, M, C]) Solve() (Result[S, C], error) {
	return s.Resolve(nil)
}

// Resolve is spec.md §4.5's resolve(initial): when initial is non-nil it is
// decoded as the starting state instead of generating one. A second call to
// Solve/Resolve resets the stop flag (spec.md §5), since Interruptible.Run
// does that on every invocation.
func (s *Solver[I, S, M, C]) Resolve(initial *S) (Result[S, C], error) {
	start := time.Now()

	var current S
	var currentCost cost.Structure[C]
	switch {
	case initial != nil:
		current = s.Clone(*initial)
		currentCost = s.Manager.CostFunctionComponents(s.In, current, nil)
	case s.Cfg.RandomState:
		trials := s.Cfg.InitTrials
		if trials <= 0 {
			trials = 1
		}
		current, currentCost = s.Manager.SampleState(s.In, trials, s.Rng)
	default:
		current = s.Manager.GreedyState(s.In, s.Rng)
		currentCost = s.Manager.CostFunctionComponents(s.In, current, nil)
	}

	ctx := runner.NewContext[I, S, M, C](s.In, s.Exp, s.Clone, s.Rng)
	ctx.Ordering = s.Ordering
	ctx.Current = current
	ctx.CurrentCost = cost.Clone(currentCost)
	ctx.Best = s.Clone(current)
	ctx.BestCost = cost.Clone(currentCost)
	ctx.MaxIterations = s.MaxIterations
	ctx.MaxEvaluations = s.MaxEvaluations
	ctx.RunID = uuid.NewString()
	ctx.Name = s.Name
	ctx.Observer = s.Observer
	ctx.MoveObs = s.MoveObserver

	var runErr error
	s.it.Run(s.Cfg.Timeout, func() {
		ctx.Stop = s.it.Stop
		runErr = runner.Go[I, S, M, C](ctx, s.Runner)
	})
	if runErr != nil {
		return Result[S, C]{}, runErr
	}

	return Result[S, C]{
		Output:    ctx.Best,
		Cost:      ctx.BestCost,
		WallClock: time.Since(start),
	}, nil
}

// RaiseTimeout forces early termination of a run in progress (spec.md §5).
func (s *Solver[I, S, M, C]) RaiseTimeout() {
	s.it.RaiseTimeout()
}
