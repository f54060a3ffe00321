package runner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/r3b0rn/localsearch/internal/cost"
)

// TestSimulatedAnnealingAcceptanceMatchesMetropolisDistribution is
// spec.md §8's testable property 7: worsening moves are accepted with
// probability exp(-delta/T); the empirical rate over many draws at a fixed
// temperature matches within chi-squared tolerance.
func TestSimulatedAnnealingAcceptanceMatchesMetropolisDistribution(t *testing.T) {
	sa := &SimulatedAnnealing[struct{}, intState, stepMove, int]{T: 10.0}
	ctx := newCtx(0, 1)

	const trialsPerDelta = 4000
	deltas := []float64{1, 2, 3, 4, 5}

	obs := make([]float64, 0, 2*len(deltas))
	expect := make([]float64, 0, 2*len(deltas))

	for _, d := range deltas {
		delta := cost.Structure[int]{Total: int(d)}
		p := math.Exp(-d / sa.T)

		accepted := 0
		for i := 0; i < trialsPerDelta; i++ {
			if sa.AcceptableMove(ctx, stepMove{}, delta) {
				accepted++
			}
		}

		obs = append(obs, float64(accepted), float64(trialsPerDelta-accepted))
		expect = append(expect, p*trialsPerDelta, (1-p)*trialsPerDelta)
	}

	chiStat := stat.ChiSquare(obs, expect)
	df := float64(len(obs) - 1)
	critical := distuv.ChiSquared{K: df}.Quantile(0.99)

	assert.Less(t, chiStat, critical, "observed acceptance counts diverge from the Metropolis distribution beyond chance")
}

// TestSimulatedAnnealingAcceptanceAlwaysAcceptsNonWorsening covers the
// unconditional half of property 7.
func TestSimulatedAnnealingAcceptanceAlwaysAcceptsNonWorsening(t *testing.T) {
	sa := &SimulatedAnnealing[struct{}, intState, stepMove, int]{T: 1.0}
	ctx := newCtx(0, 2)

	for _, total := range []int{-5, -1, 0} {
		assert.True(t, sa.AcceptableMove(ctx, stepMove{}, cost.Structure[int]{Total: total}))
	}
}
