package multimodal

import (
	"math/rand"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

// SetUnion combines N slots into one neighborhood where exactly one slot is
// active per move (spec.md §4.3): the union of all sub-neighborhoods. It
// implements neighborhood.Explorer[I, S, Composite, C] itself, so a SetUnion
// can be fed straight into any runner or nested inside a CartesianProduct.
type SetUnion[I any, S any, C cost.Number] struct {
	Slots []Slot[I, S, C]
	// Bias weights slot selection in RandomMove; nil means uniform.
	Bias []float64
}

// NewSetUnion builds a SetUnion over the given slots with uniform bias.
func NewSetUnion[I any, S any, C cost.Number](slots ...Slot[I, S, C]) *SetUnion[I, S, C] {
	return &SetUnion[I, S, C]{Slots: slots}
}

// Modality returns the number of sub-neighborhoods.
func (u *SetUnion[I, S, C]) Modality() int { return len(u.Slots) }

func (u *SetUnion[I, S, C]) pickSlot(rng *rand.Rand) int {
	n := len(u.Slots)
	if u.Bias == nil {
		return rng.Intn(n)
	}
	total := 0.0
	for _, b := range u.Bias {
		total += b
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, b := range u.Bias {
		acc += b
		if r < acc {
			return i
		}
	}
	return n - 1
}

// RandomMove picks a slot per Bias (or uniformly) and draws a random move
// from it; if that slot's neighborhood is empty it tries the remaining
// slots in round-robin order before giving up with EmptyNeighborhood.
func (u *SetUnion[I, S, C]) RandomMove(in I, st S, rng *rand.Rand) (Composite, error) {
	n := len(u.Slots)
	if n == 0 {
		return nil, errkind.New(errkind.EmptyNeighborhood, "SetUnion", "no slots registered")
	}
	start := u.pickSlot(rng)
	for attempt := 0; attempt < n; attempt++ {
		idx := (start + attempt) % n
		m, err := u.Slots[idx].RandomMove(in, st, rng)
		if err == nil {
			return buildComposite(n, idx, m), nil
		}
	}
	return nil, errkind.New(errkind.EmptyNeighborhood, "SetUnion", "every slot's neighborhood is empty")
}

// FirstMove returns the first move of the first slot with a non-empty
// neighborhood, in registration order.
func (u *SetUnion[I, S, C]) FirstMove(in I, st S) (Composite, error) {
	n := len(u.Slots)
	for idx := 0; idx < n; idx++ {
		m, err := u.Slots[idx].FirstMove(in, st)
		if err == nil {
			return buildComposite(n, idx, m), nil
		}
	}
	return nil, errkind.New(errkind.EmptyNeighborhood, "SetUnion", "every slot's neighborhood is empty")
}

// NextMove advances the active slot; when that slot is exhausted it moves
// enumeration to the first move of the next non-empty slot.
func (u *SetUnion[I, S, C]) NextMove(in I, st S, mv *Composite) bool {
	n := len(u.Slots)
	idx := activeIndex(*mv)
	if next, ok := u.Slots[idx].NextMove(in, st, (*mv)[idx].Move); ok {
		(*mv)[idx].Move = next
		return true
	}
	for j := idx + 1; j < n; j++ {
		m, err := u.Slots[j].FirstMove(in, st)
		if err == nil {
			*mv = buildComposite(n, j, m)
			return true
		}
	}
	return false
}

// MakeMove applies the active slot's move.
func (u *SetUnion[I, S, C]) MakeMove(in I, st *S, mv Composite) {
	idx := activeIndex(mv)
	u.Slots[idx].MakeMove(in, st, mv[idx].Move)
}

// FeasibleMove forwards to the active slot.
func (u *SetUnion[I, S, C]) FeasibleMove(in I, st S, mv Composite) bool {
	idx := activeIndex(mv)
	return u.Slots[idx].FeasibleMove(in, st, mv[idx].Move)
}

// DeltaCost forwards to the active slot.
func (u *SetUnion[I, S, C]) DeltaCost(in I, st S, mv Composite, weights []float64) cost.Structure[C] {
	idx := activeIndex(mv)
	return u.Slots[idx].DeltaCost(in, st, mv[idx].Move, weights)
}
