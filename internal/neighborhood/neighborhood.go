// Package neighborhood implements NeighborhoodExplorer (spec.md §4.2): move
// enumeration/sampling/application, delta-cost evaluation, feasibility, and
// the SelectFirst/SelectBest/RandomFirst/RandomBest selection helpers plus
// the full and sampled move iterators.
//
// Grounded on _examples/original_source/include/easylocal/helpers/
// neighborhoodexplorer.hh (the six-primitive surface and the selection
// helpers built on top of it) and on the teacher's neighbor-generation style
// (r3b0rn-acc-flowShop/internal/{sa,ts}/*.go: neighborSwap/neighborInsert,
// a *rand.Rand threaded explicitly through every call).
package neighborhood

import (
	"math/rand"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

// Explorer is the six-primitive surface a problem implementation supplies
// for one elementary neighborhood. I is the input type, S the state type, M
// the move type, C the cost value type.
type Explorer[I any, S any, M any, C cost.Number] interface {
	// RandomMove samples a move from the neighborhood of st uniformly (or
	// per an explorer-defined distribution). Returns errkind.EmptyNeighborhood
	// if the neighborhood is empty.
	RandomMove(in I, st S, rng *rand.Rand) (M, error)
	// FirstMove returns the canonical first move in enumeration order.
	// Returns errkind.EmptyNeighborhood if the neighborhood is empty.
	FirstMove(in I, st S) (M, error)
	// NextMove advances m to the lexically next move in place, returning
	// false when enumeration is exhausted.
	NextMove(in I, st S, m *M) bool
	// MakeMove applies m to st in place. Precondition: m was obtained from
	// st (or a state equivalent up to MakeMove semantics).
	MakeMove(in I, st *S, m M)
	// FeasibleMove reports whether applying m to st leaves a feasible
	// state.
	FeasibleMove(in I, st S, m M) bool
	// DeltaCost returns the change in each component's cost that applying m
	// to st would cause, without materializing the post-move state.
	DeltaCost(in I, st S, m M, weights []float64) cost.Structure[C]
}

// EvaluatedMove pairs a move with its evaluated cost and a validity flag;
// the zero value is the "empty" sentinel (Valid == false).
type EvaluatedMove[M any, C cost.Number] struct {
	Move  M
	Cost  cost.Structure[C]
	Valid bool
}

// Empty returns the EvaluatedMove sentinel.
func Empty[M any, C cost.Number]() EvaluatedMove[M, C] {
	return EvaluatedMove[M, C]{}
}

// Accept is the acceptance predicate threaded through the selection
// helpers: given a candidate move and its evaluated delta cost, should it be
// chosen?
type Accept[M any, C cost.Number] func(m M, delta cost.Structure[C]) bool

// AcceptAll is the trivial Accept predicate used when no filtering is
// needed (e.g. plain enumeration via the iterators below).
func AcceptAll[M any, C cost.Number](M, cost.Structure[C]) bool { return true }

// SelectFirst enumerates the full neighborhood from FirstMove, returning the
// first move whose delta cost satisfies accept. Raises EmptyNeighborhood if
// enumeration exhausts without a match (spec.md §4.2).
func SelectFirst[I any, S any, M any, C cost.Number](in I, st S, exp Explorer[I, S, M, C], accept Accept[M, C]) (EvaluatedMove[M, C], error) {
	m, err := exp.FirstMove(in, st)
	if err != nil {
		return Empty[M, C](), err
	}
	for {
		delta := exp.DeltaCost(in, st, m, nil)
		if accept(m, delta) {
			return EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}, nil
		}
		if !exp.NextMove(in, st, &m) {
			return Empty[M, C](), errkind.New(errkind.EmptyNeighborhood, "neighborhood", "SelectFirst: no move satisfied accept")
		}
	}
}

// SelectBest enumerates the full neighborhood and returns the best-cost
// accepted move, breaking ties uniformly at random among equally-best
// candidates via reservoir sampling: the k-th equally-best candidate is
// accepted into the running choice with probability 1/k (spec.md §4.2).
func SelectBest[I any, S any, M any, C cost.Number](in I, st S, exp Explorer[I, S, M, C], accept Accept[M, C], ordering cost.Ordering, rng *rand.Rand) (EvaluatedMove[M, C], error) {
	m, err := exp.FirstMove(in, st)
	if err != nil {
		return Empty[M, C](), err
	}

	var best EvaluatedMove[M, C]
	tieCount := 0
	hasFirst := true

	for hasFirst {
		delta := exp.DeltaCost(in, st, m, nil)
		if accept(m, delta) {
			if !best.Valid {
				best = EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}
				tieCount = 1
			} else {
				c := cost.Compare(delta, best.Cost, ordering)
				if c < 0 {
					best = EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}
					tieCount = 1
				} else if c == 0 {
					tieCount++
					if rng.Intn(tieCount) == 0 {
						best = EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}
					}
				}
			}
		}
		hasFirst = exp.NextMove(in, st, &m)
	}

	if !best.Valid {
		return Empty[M, C](), errkind.New(errkind.EmptyNeighborhood, "neighborhood", "SelectBest: no move satisfied accept")
	}
	return best, nil
}

// RandomFirst draws up to `samples` random moves and returns the first one
// whose delta cost satisfies accept.
func RandomFirst[I any, S any, M any, C cost.Number](in I, st S, exp Explorer[I, S, M, C], samples int, accept Accept[M, C], rng *rand.Rand) (EvaluatedMove[M, C], error) {
	for i := 0; i < samples; i++ {
		m, err := exp.RandomMove(in, st, rng)
		if err != nil {
			return Empty[M, C](), err
		}
		delta := exp.DeltaCost(in, st, m, nil)
		if accept(m, delta) {
			return EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}, nil
		}
	}
	return Empty[M, C](), errkind.New(errkind.EmptyNeighborhood, "neighborhood", "RandomFirst: no accepted move among samples")
}

// RandomBest draws up to `samples` random moves and returns the best-cost
// accepted one, with the same reservoir tie-break as SelectBest.
func RandomBest[I any, S any, M any, C cost.Number](in I, st S, exp Explorer[I, S, M, C], samples int, accept Accept[M, C], ordering cost.Ordering, rng *rand.Rand) (EvaluatedMove[M, C], error) {
	var best EvaluatedMove[M, C]
	tieCount := 0

	for i := 0; i < samples; i++ {
		m, err := exp.RandomMove(in, st, rng)
		if err != nil {
			return Empty[M, C](), err
		}
		delta := exp.DeltaCost(in, st, m, nil)
		if !accept(m, delta) {
			continue
		}
		if !best.Valid {
			best = EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}
			tieCount = 1
			continue
		}
		c := cost.Compare(delta, best.Cost, ordering)
		if c < 0 {
			best = EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}
			tieCount = 1
		} else if c == 0 {
			tieCount++
			if rng.Intn(tieCount) == 0 {
				best = EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}
			}
		}
	}

	if !best.Valid {
		return Empty[M, C](), errkind.New(errkind.EmptyNeighborhood, "neighborhood", "RandomBest: no accepted move among samples")
	}
	return best, nil
}

// FullIterator walks the entire neighborhood of a state starting at
// FirstMove, advancing with NextMove, matching spec.md §4.2's "input
// iterator yielding EvaluatedMove".
type FullIterator[I any, S any, M any, C cost.Number] struct {
	in       I
	st       S
	exp      Explorer[I, S, M, C]
	current  M
	exhausted bool
	started  bool
}

// NewFullIterator constructs an iterator over the full neighborhood of st.
func NewFullIterator[I any, S any, M any, C cost.Number](in I, st S, exp Explorer[I, S, M, C]) *FullIterator[I, S, M, C] {
	return &FullIterator[I, S, M, C]{in: in, st: st, exp: exp}
}

// Next advances the iterator and reports whether a move is available. Call
// Move/Cost after a true return.
func (it *FullIterator[I, S, M, C]) Next() bool {
	if it.exhausted {
		return false
	}
	if !it.started {
		it.started = true
		m, err := it.exp.FirstMove(it.in, it.st)
		if err != nil {
			it.exhausted = true
			return false
		}
		it.current = m
		return true
	}
	if !it.exp.NextMove(it.in, it.st, &it.current) {
		it.exhausted = true
		return false
	}
	return true
}

// Move returns the current move; only valid after Next() returned true.
func (it *FullIterator[I, S, M, C]) Move() M { return it.current }

// DeltaCost returns the current move's delta cost.
func (it *FullIterator[I, S, M, C]) DeltaCost() cost.Structure[C] {
	return it.exp.DeltaCost(it.in, it.st, it.current, nil)
}

// SampledIterator draws up to `samples` random moves from the neighborhood
// of a state.
type SampledIterator[I any, S any, M any, C cost.Number] struct {
	in      I
	st      S
	exp     Explorer[I, S, M, C]
	rng     *rand.Rand
	samples int
	drawn   int
	current M
}

// NewSampledIterator constructs an iterator drawing up to `samples` random
// moves.
func NewSampledIterator[I any, S any, M any, C cost.Number](in I, st S, exp Explorer[I, S, M, C], samples int, rng *rand.Rand) *SampledIterator[I, S, M, C] {
	return &SampledIterator[I, S, M, C]{in: in, st: st, exp: exp, rng: rng, samples: samples}
}

// Next draws the next random move, reporting whether the sample budget
// (and the neighborhood) still has moves to offer.
func (it *SampledIterator[I, S, M, C]) Next() bool {
	if it.drawn >= it.samples {
		return false
	}
	m, err := it.exp.RandomMove(it.in, it.st, it.rng)
	if err != nil {
		return false
	}
	it.current = m
	it.drawn++
	return true
}

// Move returns the current move; only valid after Next() returned true.
func (it *SampledIterator[I, S, M, C]) Move() M { return it.current }

// DeltaCost returns the current move's delta cost.
func (it *SampledIterator[I, S, M, C]) DeltaCost() cost.Structure[C] {
	return it.exp.DeltaCost(it.in, it.st, it.current, nil)
}
