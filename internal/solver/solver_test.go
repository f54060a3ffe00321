package solver_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/runner"
	"github.com/r3b0rn/localsearch/internal/solver"
	"github.com/r3b0rn/localsearch/internal/state"
)

// A minimal single-integer problem: minimize x^2 by moving ±1, enough to
// exercise the Solver driver's initial-state construction and Interruptible
// timeout wrapper (testable property E6) without a full problem fixture.

type input struct{ Bound int }

type solverState struct{ X int }

type delta struct{ D int }

type hooks struct{}

func (hooks) NewState(in input) solverState { return solverState{} }
func (hooks) RandomState(in input, st *solverState, rng *rand.Rand) {
	st.X = rng.Intn(2*in.Bound+1) - in.Bound
}
func (hooks) CheckConsistency(in input, st solverState) bool {
	return st.X >= -in.Bound && st.X <= in.Bound
}
func (hooks) ToJSON(in input, st solverState) (map[string]any, error) {
	return map[string]any{"x": st.X}, nil
}
func (hooks) FromJSON(in input, st *solverState, data map[string]any) error {
	st.X = int(data["x"].(float64))
	return nil
}

func cloneState(s solverState) solverState { return s }

type explorer struct{}

func (explorer) RandomMove(in input, st solverState, rng *rand.Rand) (delta, error) {
	if rng.Intn(2) == 0 {
		return delta{D: -1}, nil
	}
	return delta{D: 1}, nil
}
func (explorer) FirstMove(in input, st solverState) (delta, error) { return delta{D: -1}, nil }
func (explorer) NextMove(in input, st solverState, m *delta) bool {
	if m.D == -1 {
		m.D = 1
		return true
	}
	return false
}
func (explorer) MakeMove(in input, st *solverState, m delta) { st.X += m.D }
func (explorer) FeasibleMove(in input, st solverState, m delta) bool {
	return true
}
func (explorer) DeltaCost(in input, st solverState, m delta, weights []float64) cost.Structure[int] {
	before := st.X * st.X
	after := (st.X + m.D) * (st.X + m.D)
	return cost.Structure[int]{Total: after - before, Objective: after - before}
}

func newManager() *state.Manager[input, solverState, int] {
	m := state.New[input, solverState, int]("square", hooks{})
	m.AddCostComponent(cost.NewComponent[input, solverState, int]("square", 1, false, func(in input, st solverState) int {
		return st.X * st.X
	}))
	return m
}

func TestSolverSolveReachesZero(t *testing.T) {
	in := input{Bound: 20}
	mgr := newManager()
	exp := explorer{}
	hc := &runner.HillClimbing[input, solverState, delta, int]{MaxIdleIterations: 200}

	sv, err := solver.New[input, solverState, delta, int](
		solver.Config{InitTrials: 5, RandomState: true},
		in, mgr, exp, hc, cloneState, rand.New(rand.NewSource(1)),
	)
	require.NoError(t, err)

	result, err := sv.Solve()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Cost.Total)
}

func TestSolverResolveFromInitialState(t *testing.T) {
	in := input{Bound: 20}
	mgr := newManager()
	exp := explorer{}
	hc := &runner.HillClimbing[input, solverState, delta, int]{MaxIdleIterations: 200}

	sv, err := solver.New[input, solverState, delta, int](
		solver.Config{RandomState: true},
		in, mgr, exp, hc, cloneState, rand.New(rand.NewSource(2)),
	)
	require.NoError(t, err)

	initial := solverState{X: 7}
	result, err := sv.Resolve(&initial)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Cost.Total)
}

func TestSolverTimeoutReturnsWithinBudget(t *testing.T) {
	in := input{Bound: 1_000_000}
	mgr := newManager()
	exp := explorer{}
	hc := &runner.HillClimbing[input, solverState, delta, int]{MaxIdleIterations: 1_000_000_000}

	sv, err := solver.New[input, solverState, delta, int](
		solver.Config{RandomState: true, InitTrials: 1, Timeout: 200 * time.Millisecond},
		in, mgr, exp, hc, cloneState, rand.New(rand.NewSource(3)),
	)
	require.NoError(t, err)

	deadline := time.Now().Add(1 * time.Second)
	result, err := sv.Solve()
	require.NoError(t, err)
	assert.True(t, time.Now().Before(deadline))
	assert.LessOrEqual(t, result.WallClock, 900*time.Millisecond)
}

func TestConfigValidateRejectsNegativeFields(t *testing.T) {
	assert.Error(t, solver.Config{InitTrials: -1}.Validate())
	assert.Error(t, solver.Config{Timeout: -1}.Validate())
	assert.NoError(t, solver.Config{}.Validate())
}
