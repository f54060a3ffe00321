// Optional parallel neighborhood exploration (spec.md §5: "acceptable but
// not required"). ParallelSelectFirst atomically commits the first accepted
// move across worker goroutines and cancels the remaining workers;
// ParallelSelectBest reduces per-worker bests with the same reservoir tie
// break as SelectBest. The runner loop itself stays sequential — only the
// per-move DeltaCost evaluation is farmed out.
//
// Grounded on the task-pool description in
// _examples/original_source/include/easylocal/helpers/parallelneighborhoodexplorer.hh
// and include/easylocal/utils/mutex.hh, reimplemented with goroutines + a
// sync.Mutex instead of a template-bound thread pool per spec.md §9.
package neighborhood

import (
	"math/rand"
	"sync"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

// ParallelSelectFirst splits `samples` random draws across `workers`
// goroutines and returns the first accepted move observed, cancelling the
// remaining in-flight evaluations once one is committed.
func ParallelSelectFirst[I any, S any, M any, C cost.Number](in I, st S, exp Explorer[I, S, M, C], samples, workers int, accept Accept[M, C], rng *rand.Rand) (EvaluatedMove[M, C], error) {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	var committed EvaluatedMove[M, C]
	done := make(chan struct{})
	var once sync.Once

	perWorker := (samples + workers - 1) / workers
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		workerRng := rand.New(rand.NewSource(rng.Int63()))
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				select {
				case <-done:
					return
				default:
				}
				m, err := exp.RandomMove(in, st, workerRng)
				if err != nil {
					continue
				}
				delta := exp.DeltaCost(in, st, m, nil)
				if !accept(m, delta) {
					continue
				}
				mu.Lock()
				if !committed.Valid {
					committed = EvaluatedMove[M, C]{Move: m, Cost: delta, Valid: true}
					once.Do(func() { close(done) })
				}
				mu.Unlock()
				return
			}
		}()
	}
	wg.Wait()

	if !committed.Valid {
		return Empty[M, C](), errkind.New(errkind.EmptyNeighborhood, "neighborhood", "ParallelSelectFirst: no accepted move among samples")
	}
	return committed, nil
}

// ParallelSelectBest splits `samples` random draws across `workers`
// goroutines; each worker keeps its own best-with-reservoir-tiebreak, then
// the per-worker bests are merged under a mutex with the same tie rule.
func ParallelSelectBest[I any, S any, M any, C cost.Number](in I, st S, exp Explorer[I, S, M, C], samples, workers int, accept Accept[M, C], ordering cost.Ordering, rng *rand.Rand) (EvaluatedMove[M, C], error) {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	var best EvaluatedMove[M, C]
	tieCount := 0

	perWorker := (samples + workers - 1) / workers
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		workerRng := rand.New(rand.NewSource(rng.Int63()))
		go func() {
			defer wg.Done()
			local, err := RandomBest(in, st, exp, perWorker, accept, ordering, workerRng)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if !best.Valid {
				best = local
				tieCount = 1
				return
			}
			c := cost.Compare(local.Cost, best.Cost, ordering)
			if c < 0 {
				best = local
				tieCount = 1
			} else if c == 0 {
				tieCount++
				if workerRng.Intn(tieCount) == 0 {
					best = local
				}
			}
		}()
	}
	wg.Wait()

	if !best.Valid {
		return Empty[M, C](), errkind.New(errkind.EmptyNeighborhood, "neighborhood", "ParallelSelectBest: no accepted move among samples")
	}
	return best, nil
}
