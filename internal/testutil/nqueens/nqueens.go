// Package nqueens is the reference problem fixture spec.md §8's concrete
// scenarios (E1-E3, E6) are built against: one queen per row, a swap-move
// neighborhood, three conflict-count cost components.
//
// State holds one column index per row, so row conflicts are impossible by
// construction and the only tracked components are column, ascending- and
// descending-diagonal conflicts — the classic local-search N-queens
// formulation used throughout the EasyLocal++ tutorials this engine is
// grounded on (_examples/original_source's per-component CostComponent
// split, here applied to a problem the source itself doesn't ship but its
// helpers/statemanager.hh and helpers/neighborhoodexplorer.hh generalize
// to directly).
package nqueens

import (
	"math/rand"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
	"github.com/r3b0rn/localsearch/internal/neighborhood"
	"github.com/r3b0rn/localsearch/internal/state"
)

// Input is the problem size: an N x N board.
type Input struct {
	N int
}

// State assigns each row a column; Cols[row] is independent of the other
// rows (not a permutation), so column and diagonal conflicts are both
// possible starting states.
type State struct {
	Cols []int
}

// Clone returns an independent copy, required wherever Cols is mutated in
// place by MakeMove.
func Clone(st State) State {
	cols := make([]int, len(st.Cols))
	copy(cols, st.Cols)
	return State{Cols: cols}
}

// Move swaps the column assigned to two rows.
type Move struct {
	R1, R2 int
}

// Hooks implements state.Hooks[Input, State].
type Hooks struct{}

func (Hooks) NewState(in Input) State {
	return State{Cols: make([]int, in.N)}
}

func (Hooks) RandomState(in Input, st *State, rng *rand.Rand) {
	cols := make([]int, in.N)
	for r := range cols {
		cols[r] = rng.Intn(in.N)
	}
	st.Cols = cols
}

func (Hooks) CheckConsistency(in Input, st State) bool {
	if len(st.Cols) != in.N {
		return false
	}
	for _, c := range st.Cols {
		if c < 0 || c >= in.N {
			return false
		}
	}
	return true
}

func (Hooks) ToJSON(in Input, st State) (map[string]any, error) {
	cols := make([]any, len(st.Cols))
	for i, c := range st.Cols {
		cols[i] = c
	}
	return map[string]any{"cols": cols}, nil
}

func (Hooks) FromJSON(in Input, st *State, data map[string]any) error {
	raw, ok := data["cols"].([]any)
	if !ok {
		return errkind.New(errkind.IncorrectParameterValue, "nqueens", "FromJSON: missing cols")
	}
	cols := make([]int, len(raw))
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return errkind.New(errkind.IncorrectParameterValue, "nqueens", "FromJSON: cols[i] not numeric")
		}
		cols[i] = int(f)
	}
	st.Cols = cols
	return nil
}

// conflicts counts, for each of the three tracked relations, how many row
// pairs (r1 < r2) violate it.
func conflicts(cols []int) (column, diagPlus, diagMinus int) {
	n := len(cols)
	for r1 := 0; r1 < n; r1++ {
		for r2 := r1 + 1; r2 < n; r2++ {
			if cols[r1] == cols[r2] {
				column++
			}
			if r1+cols[r1] == r2+cols[r2] {
				diagPlus++
			}
			if r1-cols[r1] == r2-cols[r2] {
				diagMinus++
			}
		}
	}
	return
}

// NewManager builds the StateManager for Input/State/int costs with the
// three conflict components registered as hard constraints, so total == 0
// exactly when the board is attack-free (spec.md §8 E1's termination
// condition).
func NewManager() *state.Manager[Input, State, int] {
	m := state.New[Input, State, int]("nqueens", Hooks{})
	m.AddCostComponent(cost.NewComponent[Input, State, int]("column", 1, true, func(in Input, st State) int {
		c, _, _ := conflicts(st.Cols)
		return c
	}))
	m.AddCostComponent(cost.NewComponent[Input, State, int]("diag_plus", 1, true, func(in Input, st State) int {
		_, d, _ := conflicts(st.Cols)
		return d
	}))
	m.AddCostComponent(cost.NewComponent[Input, State, int]("diag_minus", 1, true, func(in Input, st State) int {
		_, _, d := conflicts(st.Cols)
		return d
	}))
	return m
}

// Explorer implements neighborhood.Explorer[Input, State, Move, int]: the
// neighborhood of a state is every unordered pair of distinct rows, the
// move swaps their column assignments.
type Explorer struct{}

var _ neighborhood.Explorer[Input, State, Move, int] = Explorer{}

func (Explorer) RandomMove(in Input, st State, rng *rand.Rand) (Move, error) {
	if in.N < 2 {
		return Move{}, errkind.New(errkind.EmptyNeighborhood, "nqueens", "RandomMove: N < 2")
	}
	r1 := rng.Intn(in.N)
	r2 := rng.Intn(in.N - 1)
	if r2 >= r1 {
		r2++
	}
	return Move{R1: r1, R2: r2}, nil
}

// FirstMove returns the lexicographically first pair (0,1).
func (Explorer) FirstMove(in Input, st State) (Move, error) {
	if in.N < 2 {
		return Move{}, errkind.New(errkind.EmptyNeighborhood, "nqueens", "FirstMove: N < 2")
	}
	return Move{R1: 0, R2: 1}, nil
}

// NextMove advances (r1, r2) over every pair with r1 < r2 in row-major
// order.
func (Explorer) NextMove(in Input, st State, m *Move) bool {
	m.R2++
	if m.R2 >= in.N {
		m.R1++
		m.R2 = m.R1 + 1
	}
	return m.R1 < in.N-1
}

func (Explorer) MakeMove(in Input, st *State, m Move) {
	st.Cols[m.R1], st.Cols[m.R2] = st.Cols[m.R2], st.Cols[m.R1]
}

func (Explorer) FeasibleMove(in Input, st State, m Move) bool {
	return m.R1 != m.R2
}

// DeltaCost evaluates the conflict counts before and after the swap and
// returns the componentwise difference, satisfying testable property 1
// (cost(apply(S,M)) == cost(S) + delta_cost(S,M)) by construction.
func (Explorer) DeltaCost(in Input, st State, m Move, weights []float64) cost.Structure[int] {
	before := st.Cols
	col0, dp0, dm0 := conflicts(before)

	after := make([]int, len(before))
	copy(after, before)
	after[m.R1], after[m.R2] = after[m.R2], after[m.R1]
	col1, dp1, dm1 := conflicts(after)

	dCol, dDp, dDm := col1-col0, dp1-dp0, dm1-dm0
	violations := dCol + dDp + dDm
	total := cost.DefaultHardWeight * violations
	return cost.FromComponents(total, violations, 0, []int{dCol, dDp, dDm})
}

// Inverse reports whether two swap moves undo one another — swapping the
// same pair of rows twice is a no-op, the tabu-search hook this package's
// tests register as TabuSearch.Inverse.
func Inverse(m1, m2 Move) bool {
	return (m1.R1 == m2.R1 && m1.R2 == m2.R2) || (m1.R1 == m2.R2 && m1.R2 == m2.R1)
}
