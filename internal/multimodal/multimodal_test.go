package multimodal

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/neighborhood"
)

// counterState is a minimal two-field state exercised by two independent
// "increment a counter" neighborhoods, used to test the combinators without
// pulling in a full problem fixture.
type counterState struct {
	A, B int
}

func cloneCounter(s counterState) counterState { return s }

// incMove is "add Delta to a field"; FirstMove/NextMove walk Delta over
// {-1, +1}.
type incMove struct{ Delta int }

type fieldExplorer struct {
	field func(*counterState) *int
}

func (f fieldExplorer) RandomMove(in struct{}, st counterState, rng *rand.Rand) (incMove, error) {
	if rng.Intn(2) == 0 {
		return incMove{Delta: -1}, nil
	}
	return incMove{Delta: 1}, nil
}

func (f fieldExplorer) FirstMove(in struct{}, st counterState) (incMove, error) {
	return incMove{Delta: -1}, nil
}

func (f fieldExplorer) NextMove(in struct{}, st counterState, m *incMove) bool {
	if m.Delta == -1 {
		m.Delta = 1
		return true
	}
	return false
}

func (f fieldExplorer) MakeMove(in struct{}, st *counterState, m incMove) {
	p := f.field(st)
	*p += m.Delta
}

func (f fieldExplorer) FeasibleMove(in struct{}, st counterState, m incMove) bool {
	return true
}

func (f fieldExplorer) DeltaCost(in struct{}, st counterState, m incMove, weights []float64) cost.Structure[int] {
	return cost.Structure[int]{Total: m.Delta}
}

func newFieldSlot(name string, field func(*counterState) *int) Slot[struct{}, counterState, int] {
	exp := fieldExplorer{field: field}
	var _ neighborhood.Explorer[struct{}, counterState, incMove, int] = exp
	return Adapter[struct{}, counterState, incMove, int]{
		Explorer: exp,
		SlotName: name,
		Equal:    func(a, b incMove) bool { return a.Delta == b.Delta },
	}
}

func aSlot() Slot[struct{}, counterState, int] {
	return newFieldSlot("A", func(s *counterState) *int { return &s.A })
}

func bSlot() Slot[struct{}, counterState, int] {
	return newFieldSlot("B", func(s *counterState) *int { return &s.B })
}

func TestSetUnionFirstMoveActivatesFirstSlot(t *testing.T) {
	u := NewSetUnion[struct{}, counterState, int](aSlot(), bSlot())
	mv, err := u.FirstMove(struct{}{}, counterState{})
	require.NoError(t, err)
	require.Len(t, mv, 2)
	assert.True(t, mv[0].Active)
	assert.False(t, mv[1].Active)
}

func TestSetUnionNextMoveAdvancesThenSwitchesSlot(t *testing.T) {
	u := NewSetUnion[struct{}, counterState, int](aSlot(), bSlot())
	mv, err := u.FirstMove(struct{}{}, counterState{})
	require.NoError(t, err)

	ok := u.NextMove(struct{}{}, counterState{}, &mv)
	require.True(t, ok)
	assert.True(t, mv[0].Active)
	assert.Equal(t, 1, mv[0].Move.(incMove).Delta)

	ok = u.NextMove(struct{}{}, counterState{}, &mv)
	require.True(t, ok)
	assert.False(t, mv[0].Active)
	assert.True(t, mv[1].Active)

	st := counterState{}
	u.MakeMove(struct{}{}, &st, mv)
	assert.Equal(t, counterState{A: 0, B: -1}, st)
}

func TestSetUnionExhaustsAfterBothSlots(t *testing.T) {
	u := NewSetUnion[struct{}, counterState, int](aSlot(), bSlot())
	mv, err := u.FirstMove(struct{}{}, counterState{})
	require.NoError(t, err)
	steps := 0
	for u.NextMove(struct{}{}, counterState{}, &mv) {
		steps++
		require.Less(t, steps, 10, "NextMove should terminate")
	}
	assert.Equal(t, 3, steps) // A:+1, switch to B:-1, B:+1
}

func TestCartesianProductChainsBothSlots(t *testing.T) {
	p := NewCartesianProduct[struct{}, counterState, int](cloneCounter, aSlot(), bSlot())
	mv, err := p.FirstMove(struct{}{}, counterState{})
	require.NoError(t, err)
	require.Len(t, mv, 2)
	assert.True(t, mv[0].Active)
	assert.True(t, mv[1].Active)

	st := counterState{}
	p.MakeMove(struct{}{}, &st, mv)
	assert.Equal(t, counterState{A: -1, B: -1}, st)
}

func TestCartesianProductNextMoveEnumeratesFullGrid(t *testing.T) {
	p := NewCartesianProduct[struct{}, counterState, int](cloneCounter, aSlot(), bSlot())
	mv, err := p.FirstMove(struct{}{}, counterState{})
	require.NoError(t, err)

	seen := map[[2]int]bool{}
	record := func(mv Composite) {
		seen[[2]int{mv[0].Move.(incMove).Delta, mv[1].Move.(incMove).Delta}] = true
	}
	record(mv)
	steps := 0
	for p.NextMove(struct{}{}, counterState{}, &mv) {
		record(mv)
		steps++
		require.Less(t, steps, 10, "NextMove should terminate")
	}
	assert.Len(t, seen, 4) // {-1,1}x{-1,1}
}

func TestCartesianProductRelatedFiltersCombinations(t *testing.T) {
	p := NewCartesianProduct[struct{}, counterState, int](cloneCounter, aSlot(), bSlot())
	p.Related = []Related{
		nil,
		func(prev, next any) bool {
			return prev.(incMove).Delta == next.(incMove).Delta
		},
	}
	mv, err := p.FirstMove(struct{}{}, counterState{})
	require.NoError(t, err)
	assert.Equal(t, mv[0].Move.(incMove).Delta, mv[1].Move.(incMove).Delta)

	seen := map[[2]int]bool{}
	record := func(mv Composite) {
		seen[[2]int{mv[0].Move.(incMove).Delta, mv[1].Move.(incMove).Delta}] = true
	}
	record(mv)
	for p.NextMove(struct{}{}, counterState{}, &mv) {
		assert.Equal(t, mv[0].Move.(incMove).Delta, mv[1].Move.(incMove).Delta)
		record(mv)
	}
	assert.Len(t, seen, 2) // {-1,-1} and {1,1} only
}

func TestKickerRandomKickWalksAndAccumulatesCost(t *testing.T) {
	u := NewSetUnion[struct{}, counterState, int](aSlot(), bSlot())
	k := NewKicker[struct{}, counterState, Composite, int](u, func(s counterState) counterState { return s }, 5)
	rng := rand.New(rand.NewSource(1))

	final, total, err := k.RandomKick(struct{}{}, counterState{}, rng)
	require.NoError(t, err)
	assert.Equal(t, final.A+final.B, total.Total)
}
