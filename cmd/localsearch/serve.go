package main

import (
	"context"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/r3b0rn/localsearch/internal/observer"
	"github.com/r3b0rn/localsearch/internal/solver"
	"github.com/r3b0rn/localsearch/internal/telemetry"
	"github.com/r3b0rn/localsearch/internal/testutil/nqueens"
)

var (
	serveAddr    string
	serveBoard   int
	serveRunner  string
	serveSeed    int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run solves back to back against the reference N-queens fixture, exposing /metrics and /status until interrupted",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to serve /metrics and /status on")
	serveCmd.Flags().IntVar(&serveBoard, "n", 8, "board size")
	serveCmd.Flags().StringVar(&serveRunner, "runner", "hc", "runner to use: hc, ts, sa")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 1, "base RNG seed; each run advances it by one")
}

func runServe(cmd *cobra.Command, args []string) error {
	mux := telemetry.NewMux(logger)
	httpServer := &http.Server{Addr: serveAddr, Handler: mux.Handler()}

	go func() {
		logger.Infow("telemetry server listening", "addr", serveAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("telemetry server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runnerName = serveRunner
	boardSize = serveBoard

	run := serveSeed
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		in := nqueens.Input{N: serveBoard}
		mgr := nqueens.NewManager()
		exp := nqueens.Explorer{}

		r, err := buildRunner()
		if err != nil {
			return err
		}

		sv, err := solver.New[nqueens.Input, nqueens.State, nqueens.Move, int](
			solver.Config{InitTrials: 1, RandomState: true},
			in, mgr, exp, r, nqueens.Clone, rand.New(rand.NewSource(run)),
		)
		if err != nil {
			return err
		}
		sv.Name = serveRunner
		sv.Observer = observer.Multi{mux.Observer(), observer.NewZapObserver(logger)}

		if _, err := sv.Solve(); err != nil {
			logger.Errorw("run failed", "seed", run, "error", err)
		}

		run++
		if !waitOrDone(ctx, 200*time.Millisecond) {
			break
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// waitOrDone pauses between runs so /status has time to be scraped, returning
// false if ctx was cancelled during the pause.
func waitOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
