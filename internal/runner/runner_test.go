package runner

import (
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/observer"
)

// intState is a minimal one-dimensional state exercised by a single
// "add ±1" neighborhood, enough to drive every Runner policy without a
// full problem fixture (spec.md §8's universal invariants 1, 5, 7 and the
// HillClimbing/TabuSearch/SimulatedAnnealing behaviors of §4.4 don't
// depend on problem shape).
type intState struct{ X int }

type stepMove struct{ Delta int }

type stepExplorer struct{ bound int }

func (e stepExplorer) RandomMove(in struct{}, st intState, rng *rand.Rand) (stepMove, error) {
	if rng.Intn(2) == 0 {
		return stepMove{Delta: -1}, nil
	}
	return stepMove{Delta: 1}, nil
}

func (e stepExplorer) FirstMove(in struct{}, st intState) (stepMove, error) {
	return stepMove{Delta: -1}, nil
}

func (e stepExplorer) NextMove(in struct{}, st intState, m *stepMove) bool {
	if m.Delta == -1 {
		m.Delta = 1
		return true
	}
	return false
}

func (e stepExplorer) MakeMove(in struct{}, st *intState, m stepMove) {
	st.X += m.Delta
}

func (e stepExplorer) FeasibleMove(in struct{}, st intState, m stepMove) bool { return true }

func (e stepExplorer) DeltaCost(in struct{}, st intState, m stepMove, weights []float64) cost.Structure[int] {
	before := st.X * st.X
	after := (st.X + m.Delta) * (st.X + m.Delta)
	return cost.Structure[int]{Total: after - before}
}

func cloneIntState(s intState) intState { return s }

func newCtx(start int, seed int64) *Context[struct{}, intState, stepMove, int] {
	exp := stepExplorer{}
	rng := rand.New(rand.NewSource(seed))
	ctx := NewContext[struct{}, intState, stepMove, int](struct{}{}, exp, cloneIntState, rng)
	ctx.Current = intState{X: start}
	ctx.CurrentCost = cost.Structure[int]{Total: start * start}
	ctx.Best = ctx.Current
	ctx.BestCost = ctx.CurrentCost
	return ctx
}

func TestHillClimbingReachesZero(t *testing.T) {
	ctx := newCtx(20, 1)
	hc := &HillClimbing[struct{}, intState, stepMove, int]{MaxIdleIterations: 200}
	err := Go[struct{}, intState, stepMove, int](ctx, hc)
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.BestCost.Total)
	assert.Equal(t, ctx.Best, ctx.Current)
}

func TestRunnerBestCostNonIncreasing(t *testing.T) {
	ctx := newCtx(15, 2)
	hc := &HillClimbing[struct{}, intState, stepMove, int]{MaxIdleIterations: 50}

	worst := ctx.BestCost.Total
	ctx.Observer = bestTrackingObserver{t: t, worst: &worst}
	err := Go[struct{}, intState, stepMove, int](ctx, hc)
	require.NoError(t, err)
}

type bestTrackingObserver struct {
	t     *testing.T
	worst *int
}

func (bestTrackingObserver) OnStart(e observer.Event)    {}
func (bestTrackingObserver) OnMadeMove(e observer.Event) {}
func (o bestTrackingObserver) OnNewBest(e observer.Event) {
	cur := int(e.BestCost)
	require.LessOrEqual(o.t, cur, *o.worst)
	*o.worst = cur
}
func (bestTrackingObserver) OnEnd(e observer.Event) {}

func TestSimulatedAnnealingAutoTemperatureAndCooling(t *testing.T) {
	ctx := newCtx(50, 3)
	sa := &SimulatedAnnealing[struct{}, intState, stepMove, int]{
		MinTemperature:      0.01,
		CoolingRate:         0.9,
		MaxNeighborsSampled: 50,
	}
	err := Go[struct{}, intState, stepMove, int](ctx, sa)
	require.NoError(t, err)
	assert.True(t, sa.T <= sa.MinTemperature)
	assert.Greater(t, sa.StartTemperature, 0.0)
}

func TestTabuSearchKeepsTabuListWithinMaxTenure(t *testing.T) {
	ctx := newCtx(30, 4)
	ts := &TabuSearch[struct{}, intState, stepMove, int]{
		MinTenure:         3,
		MaxTenure:         7,
		MaxIdleIterations: 200,
		Inverse: func(m1, m2 stepMove) bool {
			return m1.Delta == -m2.Delta
		},
	}
	err := Go[struct{}, intState, stepMove, int](ctx, ts)
	require.NoError(t, err)
	assert.LessOrEqual(t, ts.TabuListLen(), ts.MaxTenure)
}

func TestContextStopFlagHaltsLoopWithinOneIteration(t *testing.T) {
	ctx := newCtx(1000, 5)
	var stop atomic.Bool
	ctx.Stop = &stop
	hc := &HillClimbing[struct{}, intState, stepMove, int]{MaxIdleIterations: 1_000_000_000}

	stop.Store(true)
	err := Go[struct{}, intState, stepMove, int](ctx, hc)
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.Iteration)
}
