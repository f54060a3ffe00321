// Command bench compares hill-climbing, tabu-search, and simulated-annealing
// runner configurations against the reference N-queens fixture across a set
// of board sizes, writing a CSV comparison table.
//
// Adapted from the flow-shop GA/SA/TS/ACO/PSO comparison harness this
// package used to drive: population-based algorithms (GA/ACO/PSO) have no
// home in a pure local-search framework, so only the three runner.Runner
// implementations survive, now driven through the generic
// internal/bench.RunSuite instead of the flowshop-specific opt.Optimizer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/r3b0rn/localsearch/internal/bench"
	"github.com/r3b0rn/localsearch/internal/runner"
	"github.com/r3b0rn/localsearch/internal/solver"
	"github.com/r3b0rn/localsearch/internal/testutil/nqueens"
)

func main() {
	var (
		out      = flag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		sizes    = flag.String("sizes", "8,10,12", "размеры доски (через запятую)")
		algos    = flag.String("algos", "hc,ts,sa", "список раннеров: hc, ts, sa (через запятую)")
		runs     = flag.Int("runs", 30, "количество запусков каждого раннера (с разными сидами)")
		baseSeed = flag.Int64("seed", 1000, "базовый сид для запусков")
		perRunTO = flag.Duration("per_run_timeout", 2*time.Second, "таймаут одного запуска; 0 — без ограничения")

		hcMaxIdle = flag.Int("hc_max_idle", 500, "hill climbing: max_idle_iterations")

		tsMinTenure = flag.Int("ts_min_tenure", 3, "tabu search: min_tenure")
		tsMaxTenure = flag.Int("ts_max_tenure", 7, "tabu search: max_tenure")
		tsMaxIdle   = flag.Int("ts_max_idle", 2000, "tabu search: max_idle_iterations")

		saT0      = flag.Float64("sa_t0", 0, "simulated annealing: start_temperature (<=0 auto-estimates)")
		saTmin    = flag.Float64("sa_tmin", 0.01, "simulated annealing: min_temperature")
		saAlpha   = flag.Float64("sa_alpha", 0.95, "simulated annealing: cooling_rate")
		saSampled = flag.Int("sa_sampled", 50, "simulated annealing: max_neighbors_sampled")
	)
	flag.Parse()

	ctx := context.Background()

	boardSizes, err := parseSizes(*sizes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "конфликт:", err)
		os.Exit(2)
	}

	type factory = func(seed int64) runner.Runner[nqueens.Input, nqueens.State, nqueens.Move, int]

	available := map[string]factory{
		"hc": func(seed int64) runner.Runner[nqueens.Input, nqueens.State, nqueens.Move, int] {
			return &runner.HillClimbing[nqueens.Input, nqueens.State, nqueens.Move, int]{
				MaxIdleIterations: *hcMaxIdle,
			}
		},
		"ts": func(seed int64) runner.Runner[nqueens.Input, nqueens.State, nqueens.Move, int] {
			return &runner.TabuSearch[nqueens.Input, nqueens.State, nqueens.Move, int]{
				MinTenure:         *tsMinTenure,
				MaxTenure:         *tsMaxTenure,
				MaxIdleIterations: *tsMaxIdle,
				Inverse:           nqueens.Inverse,
			}
		},
		"sa": func(seed int64) runner.Runner[nqueens.Input, nqueens.State, nqueens.Move, int] {
			return &runner.SimulatedAnnealing[nqueens.Input, nqueens.State, nqueens.Move, int]{
				StartTemperature:    *saT0,
				MinTemperature:      *saTmin,
				CoolingRate:         *saAlpha,
				MaxNeighborsSampled: *saSampled,
			}
		},
	}

	var selected []string
	for _, a := range splitCSV(*algos) {
		if _, ok := available[a]; !ok {
			fmt.Fprintf(os.Stderr, "раннер не предоставлен в программе %q; доступные: %v\n", a, keys(available))
			os.Exit(2)
		}
		selected = append(selected, a)
	}

	cfg := bench.Config{Runs: *runs, BaseSeed: *baseSeed}

	var records []bench.Record
	for _, n := range boardSizes {
		in := nqueens.Input{N: n}
		mgr := nqueens.NewManager()
		exp := nqueens.Explorer{}

		for _, a := range selected {
			name := fmt.Sprintf("%s/n=%d", a, n)
			fmt.Printf("Запущен раннер %s; %d ферзей (общее кол-во запусков=%d)...\n", a, n, cfg.Runs)

			solverCfg := solver.Config{InitTrials: 1, RandomState: true, Timeout: *perRunTO}
			rec, err := bench.RunSuite[nqueens.Input, nqueens.State, nqueens.Move, int](
				ctx, name, cfg, solverCfg, in, mgr, exp, available[a], nqueens.Clone,
			)
			if err != nil {
				fmt.Fprintln(os.Stderr, "ошибка:", err)
				os.Exit(1)
			}
			records = append(records, rec)

			fmt.Printf("  Значение целевой функции: лучшее=%.0f среднее=%.2f стандартное отклонение=%.2f | Время: среднее=%.2fms стандартное отклонение=%.2fms\n",
				rec.CostBest, rec.CostMean, rec.CostStd,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка при записи в CSV:", err)
		os.Exit(1)
	}
	fmt.Println("Saved:", *out)
}

// helpers

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, p := range splitCSV(s) {
		n, err := atoiStrict(p)
		if err != nil {
			return nil, fmt.Errorf("размер доски %q: %w", p, err)
		}
		if n < 4 {
			return nil, fmt.Errorf("размер доски %q: должен быть >= 4", p)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("не указано ни одного размера доски")
	}
	return out, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func keys(m map[string]func(seed int64) runner.Runner[nqueens.Input, nqueens.State, nqueens.Move, int]) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
