package multimodal

import (
	"math/rand"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
	"github.com/r3b0rn/localsearch/internal/neighborhood"
)

// Kicker applies a bounded random walk of `Steps` moves to a state with no
// acceptance criterion, used as a restart/diversification perturbation
// between runner invocations. Grounded on
// _examples/original_source/src/testers/KickerTester.hh and the sibling
// kickers/Kicker.hh (RandomKick over a max-step bound), built directly on
// any neighborhood.Explorer[I,S,M,C] — including a *SetUnion or
// *CartesianProduct from this package, since both satisfy that interface.
type Kicker[I any, S any, M any, C cost.Number] struct {
	Explorer neighborhood.Explorer[I, S, M, C]
	// Clone must return an independent copy of st for MakeMove to mutate in
	// place (see CartesianProduct.Clone).
	Clone func(S) S
	// Steps is the walk length, the original's MaxStep.
	Steps int
}

// NewKicker builds a Kicker walking Steps random moves of exp.
func NewKicker[I any, S any, M any, C cost.Number](exp neighborhood.Explorer[I, S, M, C], clone func(S) S, steps int) Kicker[I, S, M, C] {
	return Kicker[I, S, M, C]{Explorer: exp, Clone: clone, Steps: steps}
}

// RandomKick applies up to Steps random moves in sequence, stopping early if
// the neighborhood empties out, and returns the resulting state together
// with the total delta cost accumulated along the walk (the original's
// RandomKick, generalized to report cost instead of mutating in place only).
func (k Kicker[I, S, M, C]) RandomKick(in I, st S, rng *rand.Rand) (S, cost.Structure[C], error) {
	cur := k.Clone(st)
	total := cost.Zero[C]()
	for i := 0; i < k.Steps; i++ {
		m, err := k.Explorer.RandomMove(in, cur, rng)
		if err != nil {
			return cur, total, err
		}
		delta := k.Explorer.DeltaCost(in, cur, m, nil)
		total.AddAssign(delta)
		k.Explorer.MakeMove(in, &cur, m)
	}
	return cur, total, nil
}

// FirstImprovingKick walks Steps moves, but at each step tries up to
// `samples` random candidates and takes the first one with a negative
// (flat-ordering) Total delta, falling back to a plain random move if none
// improves within the sample budget — the original's FirstImprovingKick.
func (k Kicker[I, S, M, C]) FirstImprovingKick(in I, st S, samples int, rng *rand.Rand) (S, cost.Structure[C], error) {
	cur := k.Clone(st)
	total := cost.Zero[C]()
	var zero C
	for i := 0; i < k.Steps; i++ {
		var chosen M
		var chosenDelta cost.Structure[C]
		found := false
		var fallback M
		var fallbackDelta cost.Structure[C]
		haveFallback := false
		for s := 0; s < samples; s++ {
			m, err := k.Explorer.RandomMove(in, cur, rng)
			if err != nil {
				break
			}
			delta := k.Explorer.DeltaCost(in, cur, m, nil)
			if !haveFallback {
				fallback, fallbackDelta, haveFallback = m, delta, true
			}
			if delta.Total < zero {
				chosen, chosenDelta, found = m, delta, true
				break
			}
		}
		if !found {
			if !haveFallback {
				return cur, total, errkind.New(errkind.EmptyNeighborhood, "Kicker", "FirstImprovingKick: neighborhood empty mid-walk")
			}
			chosen, chosenDelta = fallback, fallbackDelta
		}
		total.AddAssign(chosenDelta)
		k.Explorer.MakeMove(in, &cur, chosen)
	}
	return cur, total, nil
}
