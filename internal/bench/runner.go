// Package bench runs a local-search configuration repeatedly across seeds
// and reports best/mean/std statistics on cost and wall-clock time, the way
// an experimenter compares runner configurations against each other.
//
// Adapted from the teacher's flow-shop-specific Runner/Record/WriteCSV
// (which drove opt.Optimizer over flowshop.Instance and tracked makespan)
// into a generic harness over any (Input, State, Move, Cost) instantiation
// of internal/solver, so it can drive the same runner.Runner values
// cmd/localsearch builds.
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/neighborhood"
	"github.com/r3b0rn/localsearch/internal/runner"
	"github.com/r3b0rn/localsearch/internal/solver"
	"github.com/r3b0rn/localsearch/internal/state"
)

// Config is the suite-level knobs: how many seeded repetitions to run and
// the base seed each repetition offsets from.
type Config struct {
	Runs     int
	BaseSeed int64
}

// Record is one row of a comparison table: a named runner configuration's
// cost and timing statistics across Config.Runs repetitions.
type Record struct {
	Name string
	Runs int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	CostBest float64
	CostMean float64
	CostStd  float64
}

// RunSuite runs cfg.Runs independent solves of a runner built fresh per
// seed by factory, against one fixed (Input, StateManager, Explorer)
// instance, and summarizes the resulting best-cost and wall-clock
// distributions. ctx is checked before each run and ends the suite with
// ctx's error; it is not passed to the solver, so a run already in progress
// is bounded only by solverCfg.Timeout.
func RunSuite[I any, S any, M any, C cost.Number](
	ctx context.Context,
	name string,
	cfg Config,
	solverCfg solver.Config,
	in I,
	mgr *state.Manager[I, S, C],
	exp neighborhood.Explorer[I, S, M, C],
	factory func(seed int64) runner.Runner[I, S, M, C],
	clone func(S) S,
) (Record, error) {
	if cfg.Runs <= 0 {
		return Record{}, fmt.Errorf("bench: Runs must be positive, got %d", cfg.Runs)
	}

	costs := make([]float64, 0, cfg.Runs)
	timesMs := make([]float64, 0, cfg.Runs)

	for i := 0; i < cfg.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}

		seed := cfg.BaseSeed + int64(i)
		r := factory(seed)

		sv, err := solver.New[I, S, M, C](solverCfg, in, mgr, exp, r, clone, rand.New(rand.NewSource(seed)))
		if err != nil {
			return Record{}, fmt.Errorf("run %d: building solver: %w", i, err)
		}

		result, err := sv.Solve()
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}

		costs = append(costs, float64(result.Cost.Total))
		timesMs = append(timesMs, float64(result.WallClock.Microseconds())/1000.0)
	}

	cStats := CalcFloatStats(costs)
	tStats := CalcFloatStats(timesMs)

	return Record{
		Name: name,
		Runs: cfg.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		CostBest: cStats.Best,
		CostMean: cStats.Mean,
		CostStd:  cStats.Std,
	}, nil
}

// WriteCSV writes one row per Record, for feeding a comparison across
// runner configurations into a spreadsheet or plotting tool.
func WriteCSV(path string, records []Record) error {
	if dir := dirOf(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"name", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"cost_best", "cost_mean", "cost_std",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Name,
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.CostBest),
			ftoa(r.CostMean),
			ftoa(r.CostStd),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
