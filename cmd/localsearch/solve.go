package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/r3b0rn/localsearch/internal/observer"
	"github.com/r3b0rn/localsearch/internal/params"
	"github.com/r3b0rn/localsearch/internal/runner"
	"github.com/r3b0rn/localsearch/internal/solver"
	"github.com/r3b0rn/localsearch/internal/telemetry"
	"github.com/r3b0rn/localsearch/internal/testutil/nqueens"
)

var (
	boardSize      int
	runnerName     string
	seed           int64
	telemetryAddr  string
	solveTimeoutMs int
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve an N-queens instance with hill climbing, tabu search, or simulated annealing",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().IntVar(&boardSize, "n", 8, "board size")
	solveCmd.Flags().StringVar(&runnerName, "runner", "hc", "runner to use: hc, ts, sa")
	solveCmd.Flags().Int64Var(&seed, "seed", 1, "RNG seed")
	solveCmd.Flags().StringVar(&telemetryAddr, "telemetry-addr", "", "if set, serve /metrics and /status on this address while solving")
	solveCmd.Flags().IntVar(&solveTimeoutMs, "timeout-ms", 0, "wall-clock timeout in milliseconds; 0 = use --solver::timeout (seconds, 0 = unbounded)")
}

func mustInt(box *params.Box, name string) int {
	p, ok := box.IntParam(name)
	if !ok {
		panic(fmt.Sprintf("localsearch: %s::%s not registered by NewCoreRegistry", box.Prefix, name))
	}
	return p.MustGet()
}

func mustFloat64(box *params.Box, name string) float64 {
	p, ok := box.Float64Param(name)
	if !ok {
		panic(fmt.Sprintf("localsearch: %s::%s not registered by NewCoreRegistry", box.Prefix, name))
	}
	return p.MustGet()
}

func mustBool(box *params.Box, name string) bool {
	p, ok := box.BoolParam(name)
	if !ok {
		panic(fmt.Sprintf("localsearch: %s::%s not registered by NewCoreRegistry", box.Prefix, name))
	}
	return p.MustGet()
}

func buildRunner() (runner.Runner[nqueens.Input, nqueens.State, nqueens.Move, int], error) {
	hcBox := registry.Box("hc")
	saBox := registry.Box("sa")
	tsBox := registry.Box("ts")

	switch runnerName {
	case "hc":
		return &runner.HillClimbing[nqueens.Input, nqueens.State, nqueens.Move, int]{
			MaxIdleIterations: mustInt(hcBox, "max_idle_iterations"),
		}, nil
	case "ts":
		return &runner.TabuSearch[nqueens.Input, nqueens.State, nqueens.Move, int]{
			MinTenure:         mustInt(tsBox, "min_tenure"),
			MaxTenure:         mustInt(tsBox, "max_tenure"),
			MaxIdleIterations: mustInt(hcBox, "max_idle_iterations"),
			Inverse:           nqueens.Inverse,
		}, nil
	case "sa":
		accepted, _ := saBox.IntParam("max_neighbors_accepted")
		maxAccepted := 0
		if accepted != nil {
			if v, err := accepted.Get(); err == nil {
				maxAccepted = v
			}
		}
		return &runner.SimulatedAnnealing[nqueens.Input, nqueens.State, nqueens.Move, int]{
			StartTemperature:    mustFloat64(saBox, "start_temperature"),
			MinTemperature:      mustFloat64(saBox, "min_temperature"),
			CoolingRate:         mustFloat64(saBox, "cooling_rate"),
			MaxNeighborsSampled: mustInt(saBox, "max_neighbors_sampled"),
			MaxNeighborsAccepted: maxAccepted,
		}, nil
	default:
		return nil, fmt.Errorf("unknown --runner %q; want hc, ts, or sa", runnerName)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	in := nqueens.Input{N: boardSize}
	mgr := nqueens.NewManager()
	exp := nqueens.Explorer{}

	r, err := buildRunner()
	if err != nil {
		return err
	}

	solverBox := registry.Box("solver")
	timeout := time.Duration(solveTimeoutMs) * time.Millisecond
	if solveTimeoutMs == 0 {
		if secs := mustFloat64(solverBox, "timeout"); secs > 0 {
			timeout = time.Duration(secs * float64(time.Second))
		}
	}

	cfg := solver.Config{
		InitTrials:  mustInt(solverBox, "init_trials"),
		RandomState: mustBool(solverBox, "random_state"),
		Timeout:     timeout,
	}

	sv, err := solver.New[nqueens.Input, nqueens.State, nqueens.Move, int](
		cfg, in, mgr, exp, r, nqueens.Clone, rand.New(rand.NewSource(seed)),
	)
	if err != nil {
		return err
	}
	sv.Name = runnerName
	sv.Observer = observer.Multi{observer.NewZapObserver(logger)}

	var httpServer *http.Server
	if telemetryAddr != "" {
		mux := telemetry.NewMux(logger)
		sv.Observer = append(sv.Observer.(observer.Multi), mux.Observer())
		httpServer = &http.Server{Addr: telemetryAddr, Handler: mux.Handler()}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorw("telemetry server stopped", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(ctx)
		}()
	}

	result, err := sv.Solve()
	if err != nil {
		return err
	}

	out, err := mgr.ToJSON(in, result.Output)
	if err != nil {
		return err
	}
	doc := map[string]any{
		"board_size":  boardSize,
		"runner":      runnerName,
		"best_cost":   result.Cost,
		"wall_clock":  result.WallClock.String(),
		"state":       out,
		"consistent":  mgr.CheckConsistency(in, result.Output),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
