package solver

import (
	"sync/atomic"
	"time"
)

// Interruptible implements spec.md §5's cancellation contract: a runner's Go
// loop runs to completion on the caller's goroutine unless a timeout is set,
// in which case Run spawns a helper goroutine that owns the call, arms a
// one-shot timer, and sets Stop when it fires. The Go loop is expected to
// poll Stop once per iteration and exit within one iteration of it being
// set (internal/runner.Context.Stop is this same flag).
//
// Grounded on the ctx.Err()-polling shape of
// r3b0rn-acc-flowShop/internal/{sa,ts}/*.go, generalized from a
// context.Context deadline to the explicit atomic.Bool spec.md §5 specifies
// ("implementations may use OS threads with a shared atomic flag").
type Interruptible struct {
	Stop *atomic.Bool
}

// NewInterruptible allocates the shared stop flag.
func NewInterruptible() *Interruptible {
	return &Interruptible{Stop: new(atomic.Bool)}
}

// Run resets Stop, then calls fn either directly (timeout <= 0, "run to
// natural stop") or on a helper goroutine bounded by timeout: on fire, Stop
// is set and Run blocks until fn returns, so fn's own cleanup
// (Runner.TerminateRun) always completes before Run does.
func (it *Interruptible) Run(timeout time.Duration, fn func()) {
	if it.Stop == nil {
		it.Stop = new(atomic.Bool)
	}
	it.Stop.Store(false)

	if timeout <= 0 {
		fn()
		return
	}

	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		it.Stop.Store(true)
		<-done
	}
}

// RaiseTimeout lets an external caller force early termination of a run in
// progress, per spec.md §5's "external callers may call a raise_timeout
// method".
func (it *Interruptible) RaiseTimeout() {
	if it.Stop != nil {
		it.Stop.Store(true)
	}
}
