package runner

import (
	"fmt"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

type tabuEntry[M any] struct {
	Move   M
	Expiry int
}

// TabuSearch implements spec.md §4.4.b. The tabu list stores previously
// applied moves with an expiry iteration; a candidate is prohibited when
// some unexpired entry's move is the Inverse of it, unless the aspiration
// criterion (current_cost + delta < best_cost) lets it through.
//
// Grounded on the ring-buffer tabu list in
// r3b0rn-acc-flowShop/internal/ts/ts.go (newTabuList/IsTabu/Add, tenure
// drawn uniformly from a range, purge-by-expiry), adapted from a
// move-key-hash index (the teacher's moves are fixed-shape permutation
// swaps/inserts, cheap to hash) to a linear scan against the user-supplied
// Inverse predicate, since spec.md §3 only guarantees Move is
// equality-comparable and orderable, not hashable into a fixed key space.
type TabuSearch[I any, S any, M any, C cost.Number] struct {
	MinTenure, MaxTenure int
	MaxIdleIterations    int
	// Inverse reports whether two moves undo one another; required.
	Inverse func(m1, m2 M) bool
	// Capacity bounds the tabu list length by FIFO eviction, independent of
	// expiry-based purging; 0 means unbounded (rely on expiry alone).
	Capacity int

	list     []tabuEntry[M]
	lastMove M
}

func (t *TabuSearch[I, S, M, C]) InitializeRun(ctx *Context[I, S, M, C]) error {
	if t.MinTenure < 0 || t.MaxTenure < t.MinTenure {
		return errkind.New(errkind.IncorrectParameterValue, "ts", "min_tenure/max_tenure out of range")
	}
	if t.MaxIdleIterations <= 0 {
		return errkind.New(errkind.IncorrectParameterValue, "ts", "max_idle_iterations must be > 0")
	}
	if t.Inverse == nil {
		return errkind.New(errkind.IncorrectParameterValue, "ts", "inverse predicate not supplied")
	}
	t.list = nil
	return nil
}

func (t *TabuSearch[I, S, M, C]) purge(iter int) {
	kept := t.list[:0]
	for _, e := range t.list {
		if e.Expiry > iter {
			kept = append(kept, e)
		}
	}
	t.list = kept
}

func (t *TabuSearch[I, S, M, C]) listMember(m M) bool {
	for _, e := range t.list {
		if t.Inverse(e.Move, m) {
			return true
		}
	}
	return false
}

// SelectMove enumerates the full neighborhood and returns the best-cost
// move among those that are not prohibited, with the same reservoir
// tie-break as neighborhood.SelectBest.
func (t *TabuSearch[I, S, M, C]) SelectMove(ctx *Context[I, S, M, C]) (M, cost.Structure[C], bool, error) {
	var zero M
	t.purge(ctx.Iteration)

	m, err := ctx.Exp.FirstMove(ctx.In, ctx.Current)
	if err != nil {
		return zero, cost.Zero[C](), false, err
	}

	var best M
	var bestDelta cost.Structure[C]
	haveBest := false
	tieCount := 0

	for {
		delta := ctx.DeltaCost(m)
		candidateCost := cost.Add(ctx.CurrentCost, delta)
		aspiration := cost.Compare(candidateCost, ctx.BestCost, ctx.Ordering) < 0
		prohibited := t.listMember(m) && !aspiration

		if !prohibited {
			if !haveBest {
				best, bestDelta, haveBest = m, delta, true
				tieCount = 1
			} else {
				c := cost.Compare(delta, bestDelta, ctx.Ordering)
				if c < 0 {
					best, bestDelta = m, delta
					tieCount = 1
				} else if c == 0 {
					tieCount++
					if ctx.Rng.Intn(tieCount) == 0 {
						best, bestDelta = m, delta
					}
				}
			}
		}

		if !ctx.Exp.NextMove(ctx.In, ctx.Current, &m) {
			break
		}
	}

	if !haveBest {
		return zero, cost.Zero[C](), false, nil
	}
	t.lastMove = best
	return best, bestDelta, true, nil
}

// AcceptableMove always accepts the move SelectMove already filtered.
func (t *TabuSearch[I, S, M, C]) AcceptableMove(ctx *Context[I, S, M, C], m M, delta cost.Structure[C]) bool {
	return true
}

// CompleteIteration records the move just applied with a uniformly drawn
// tenure, so its inverse is prohibited until that iteration expires.
func (t *TabuSearch[I, S, M, C]) CompleteIteration(ctx *Context[I, S, M, C], accepted bool) {
	if !accepted {
		return
	}
	tenure := t.MinTenure
	if t.MaxTenure > t.MinTenure {
		tenure += ctx.Rng.Intn(t.MaxTenure - t.MinTenure + 1)
	}
	t.list = append(t.list, tabuEntry[M]{Move: t.lastMove, Expiry: ctx.Iteration + tenure})
	if t.Capacity > 0 && len(t.list) > t.Capacity {
		t.list = t.list[len(t.list)-t.Capacity:]
	}
}

func (t *TabuSearch[I, S, M, C]) StopCriterion(ctx *Context[I, S, M, C]) bool {
	return ctx.Iteration-ctx.IterationOfBest >= t.MaxIdleIterations
}

func (t *TabuSearch[I, S, M, C]) TerminateRun(ctx *Context[I, S, M, C]) {}

func (t *TabuSearch[I, S, M, C]) Status(ctx *Context[I, S, M, C]) string {
	return fmt.Sprintf("tabu_size=%d", len(t.list))
}

// TabuListLen exposes the current tabu list length for tests and observers
// (testable property E2: "tabu list size is ≤ max_tenure").
func (t *TabuSearch[I, S, M, C]) TabuListLen() int { return len(t.list) }
