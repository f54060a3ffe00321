package multimodal

import (
	"math/rand"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

// Related reports whether a move in slot i may follow move `prev`, chosen in
// slot i-1, in the same composite move (spec.md §4.3's `related` predicate).
// Related[i] is looked up by the index of the later slot; Related[0], if
// present, is never consulted (slot 0 has no predecessor).
type Related func(prev, next any) bool

// CartesianProduct chains N slots so that every move is active (spec.md
// §4.3): one sub-move per slot, applied in sequence to a chain of
// intermediate states, filtered so consecutive sub-moves satisfy the
// registered Related predicate. It implements
// neighborhood.Explorer[I, S, Composite, C].
//
// Grounded on the DFS-with-backtracking enumeration described in
// _examples/original_source/include/easylocal/helpers/
// multimodalneighborhoodexplorer.hh's CartesianProductNeighborhoodExplorer,
// reimplemented as an explicit recursive search over a type-erased []Slot
// instead of compile-time tuple recursion (spec.md §9).
type CartesianProduct[I any, S any, C cost.Number] struct {
	Slots []Slot[I, S, C]
	// Related[i] filters slot i's candidate moves against slot i-1's chosen
	// move; a nil entry (including Related[0]) means "always related".
	Related []Related
	// Clone must return an independent copy of st suitable for in-place
	// mutation via MakeMove — required whenever S holds reference-typed
	// fields (slices, maps, pointers) that MakeMove mutates, since a bare Go
	// assignment only copies the header.
	Clone func(S) S
}

// NewCartesianProduct builds a CartesianProduct over the given slots with no
// relatedness filtering (every combination is legal), copying intermediate
// states with clone.
func NewCartesianProduct[I any, S any, C cost.Number](clone func(S) S, slots ...Slot[I, S, C]) *CartesianProduct[I, S, C] {
	return &CartesianProduct[I, S, C]{Slots: slots, Clone: clone}
}

// Modality returns the number of chained sub-neighborhoods.
func (p *CartesianProduct[I, S, C]) Modality() int { return len(p.Slots) }

func (p *CartesianProduct[I, S, C]) related(i int, prev, next any) bool {
	if i == 0 || i >= len(p.Related) || p.Related[i] == nil {
		return true
	}
	return p.Related[i](prev, next)
}

// advance fills states/moves from slot i onward: useNext selects slot i's
// NextMove continuing from moves[i] (resume enumeration), false selects
// FirstMove (start enumeration at this slot). On success it returns true
// with states/moves populated through the last slot; on exhaustion at slot
// i it backtracks to i-1 in NextMove mode, as the original's DFS does.
func (p *CartesianProduct[I, S, C]) advance(in I, states []S, moves []any, i int, useNext bool) bool {
	if i < 0 {
		return false
	}
	n := len(p.Slots)

	var m any
	var ok bool
	if useNext {
		m, ok = p.Slots[i].NextMove(in, states[i], moves[i])
	} else {
		mv, err := p.Slots[i].FirstMove(in, states[i])
		m, ok = mv, err == nil
	}

	for ok {
		if i == 0 || p.related(i, moves[i-1], m) {
			moves[i] = m
			states[i+1] = p.Clone(states[i])
			p.Slots[i].MakeMove(in, &states[i+1], m)
			if i == n-1 {
				return true
			}
			if p.advance(in, states, moves, i+1, false) {
				return true
			}
			// Deeper slots exhausted for this prefix: keep trying this
			// level's remaining moves below.
		}
		m, ok = p.Slots[i].NextMove(in, states[i], m)
	}
	return p.advance(in, states, moves, i-1, true)
}

// FirstMove runs the depth-first search from slot 0.
func (p *CartesianProduct[I, S, C]) FirstMove(in I, st S) (Composite, error) {
	n := len(p.Slots)
	if n == 0 {
		return nil, errkind.New(errkind.EmptyNeighborhood, "CartesianProduct", "no slots registered")
	}
	states := make([]S, n+1)
	states[0] = p.Clone(st)
	moves := make([]any, n)
	if !p.advance(in, states, moves, 0, false) {
		return nil, errkind.New(errkind.EmptyNeighborhood, "CartesianProduct", "no related combination exists")
	}
	return buildAllActive(moves), nil
}

// NextMove resumes enumeration at the last slot, backtracking through
// earlier slots as their sub-neighborhoods are exhausted.
func (p *CartesianProduct[I, S, C]) NextMove(in I, st S, mv *Composite) bool {
	n := len(p.Slots)
	states := make([]S, n+1)
	states[0] = p.Clone(st)
	moves := make([]any, n)
	for i := 0; i < n; i++ {
		moves[i] = (*mv)[i].Move
		states[i+1] = p.Clone(states[i])
		p.Slots[i].MakeMove(in, &states[i+1], moves[i])
	}
	if !p.advance(in, states, moves, n-1, true) {
		return false
	}
	*mv = buildAllActive(moves)
	return true
}

// randomAdvance mirrors advance but draws each slot's initial candidate with
// RandomMove instead of FirstMove, and stops enumerating a slot's
// NextMove chain (instead of exhausting it) once it wraps back to that
// slot's own initial random pick — matching the documented behaviour for
// random_move on a CartesianProduct (spec.md §9 Open Question: random_move
// must still respect `related`, so it falls back to bounded enumeration
// rather than a single independent draw per slot).
func (p *CartesianProduct[I, S, C]) randomAdvance(in I, states []S, moves, initial []any, i int, rng *rand.Rand) bool {
	if i < 0 {
		return false
	}
	n := len(p.Slots)

	var m any
	var ok bool
	if initial[i] == nil {
		var err error
		m, err = p.Slots[i].RandomMove(in, states[i], rng)
		ok = err == nil
		if ok {
			initial[i] = m
		}
	} else {
		next, nok := p.Slots[i].NextMove(in, states[i], moves[i])
		ok = nok && !p.Slots[i].EqualMove(next, initial[i])
		m = next
	}

	for ok {
		if i == 0 || p.related(i, moves[i-1], m) {
			moves[i] = m
			states[i+1] = p.Clone(states[i])
			p.Slots[i].MakeMove(in, &states[i+1], m)
			if i == n-1 {
				return true
			}
			if p.randomAdvance(in, states, moves, initial, i+1, rng) {
				return true
			}
		}
		next, nok := p.Slots[i].NextMove(in, states[i], m)
		ok = nok && !p.Slots[i].EqualMove(next, initial[i])
		m = next
	}
	initial[i] = nil
	return p.randomAdvance(in, states, moves, initial, i-1, rng)
}

// RandomMove draws a random move per slot, filtered by Related, backtracking
// to an earlier slot's next candidate (wrapping, not exhausting, its
// enumeration) whenever no later slot can be completed.
func (p *CartesianProduct[I, S, C]) RandomMove(in I, st S, rng *rand.Rand) (Composite, error) {
	n := len(p.Slots)
	if n == 0 {
		return nil, errkind.New(errkind.EmptyNeighborhood, "CartesianProduct", "no slots registered")
	}
	states := make([]S, n+1)
	states[0] = p.Clone(st)
	moves := make([]any, n)
	initial := make([]any, n)
	if !p.randomAdvance(in, states, moves, initial, 0, rng) {
		return nil, errkind.New(errkind.EmptyNeighborhood, "CartesianProduct", "no related combination exists")
	}
	return buildAllActive(moves), nil
}

// MakeMove applies every slot's move to st in chain order.
func (p *CartesianProduct[I, S, C]) MakeMove(in I, st *S, mv Composite) {
	for i, am := range mv {
		p.Slots[i].MakeMove(in, st, am.Move)
	}
}

// FeasibleMove replays the chain on a scratch copy of st, requiring every
// slot's move to be feasible on the state reached after its predecessors.
func (p *CartesianProduct[I, S, C]) FeasibleMove(in I, st S, mv Composite) bool {
	cur := p.Clone(st)
	for i, am := range mv {
		if !p.Slots[i].FeasibleMove(in, cur, am.Move) {
			return false
		}
		p.Slots[i].MakeMove(in, &cur, am.Move)
	}
	return true
}

// DeltaCost sums each slot's delta cost, replaying MakeMove on a scratch
// chain between slots so each slot evaluates against the state its
// predecessors actually produce.
func (p *CartesianProduct[I, S, C]) DeltaCost(in I, st S, mv Composite, weights []float64) cost.Structure[C] {
	cur := p.Clone(st)
	total := cost.Zero[C]()
	for i, am := range mv {
		d := p.Slots[i].DeltaCost(in, cur, am.Move, weights)
		total.AddAssign(d)
		p.Slots[i].MakeMove(in, &cur, am.Move)
	}
	return total
}
