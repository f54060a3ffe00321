// Package multimodal implements the multimodal move combinators of spec.md
// §4.3: SetUnion (exactly one active sub-move) and CartesianProduct (all
// sub-moves active, chained through intermediate states and filtered by a
// `related` predicate), plus the Kicker perturbation.
//
// The original (_examples/original_source/include/easylocal/helpers/
// multimodalneighborhoodexplorer.hh) dispatches over a C++ tuple of
// NeighborhoodExplorer instantiations at compile time. Go has no variadic
// heterogeneous tuple of generic types, so per spec.md §9's design note this
// package erases every sub-explorer behind Slot, a non-generic vtable over
// `any`-boxed moves, and holds them in a plain []Slot. Adapter recovers the
// static Explorer[I,S,M,C] shape for callers that already have one.
package multimodal

import (
	"math/rand"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/neighborhood"
)

// Slot is one type-erased sub-explorer: the six NeighborhoodExplorer
// primitives with the move type boxed as `any`, plus EqualMove, which
// CartesianProduct's RandomMove uses to stop a slot's enumeration on
// reaching that slot's initial random pick.
type Slot[I any, S any, C cost.Number] interface {
	Name() string
	RandomMove(in I, st S, rng *rand.Rand) (any, error)
	FirstMove(in I, st S) (any, error)
	NextMove(in I, st S, m any) (any, bool)
	MakeMove(in I, st *S, m any)
	FeasibleMove(in I, st S, m any) bool
	DeltaCost(in I, st S, m any, weights []float64) cost.Structure[C]
	EqualMove(a, b any) bool
}

// Adapter boxes a concrete neighborhood.Explorer[I,S,M,C] into a Slot.
type Adapter[I any, S any, M any, C cost.Number] struct {
	Explorer neighborhood.Explorer[I, S, M, C]
	SlotName string
	// Equal compares two moves of type M for the wraparound/collapse checks.
	// Required: M may not be comparable with == (e.g. a slice-backed move).
	Equal func(a, b M) bool
}

func (a Adapter[I, S, M, C]) Name() string { return a.SlotName }

func (a Adapter[I, S, M, C]) RandomMove(in I, st S, rng *rand.Rand) (any, error) {
	m, err := a.Explorer.RandomMove(in, st, rng)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (a Adapter[I, S, M, C]) FirstMove(in I, st S) (any, error) {
	m, err := a.Explorer.FirstMove(in, st)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (a Adapter[I, S, M, C]) NextMove(in I, st S, m any) (any, bool) {
	mv := m.(M)
	ok := a.Explorer.NextMove(in, st, &mv)
	return mv, ok
}

func (a Adapter[I, S, M, C]) MakeMove(in I, st *S, m any) {
	a.Explorer.MakeMove(in, st, m.(M))
}

func (a Adapter[I, S, M, C]) FeasibleMove(in I, st S, m any) bool {
	return a.Explorer.FeasibleMove(in, st, m.(M))
}

func (a Adapter[I, S, M, C]) DeltaCost(in I, st S, m any, weights []float64) cost.Structure[C] {
	return a.Explorer.DeltaCost(in, st, m.(M), weights)
}

func (a Adapter[I, S, M, C]) EqualMove(x, y any) bool {
	return a.Equal(x.(M), y.(M))
}

// ActiveMove pairs a boxed move with whether its slot is the active one
// (SetUnion) or always active (CartesianProduct). This package defines no
// equality or ordering for ActiveMove: Go's == compares Move as well as
// Active, so two inactive values holding different moves are not equal.
type ActiveMove struct {
	Move   any
	Active bool
}

// Composite is the move type produced by every combinator in this package:
// one ActiveMove per registered Slot, in registration order.
type Composite []ActiveMove

func activeIndex(mv Composite) int {
	for i, am := range mv {
		if am.Active {
			return i
		}
	}
	return -1
}

func buildComposite(n, active int, move any) Composite {
	mv := make(Composite, n)
	mv[active] = ActiveMove{Move: move, Active: true}
	return mv
}

func buildAllActive(moves []any) Composite {
	mv := make(Composite, len(moves))
	for i, m := range moves {
		mv[i] = ActiveMove{Move: m, Active: true}
	}
	return mv
}
