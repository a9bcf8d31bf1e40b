// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ptbase/prism-go/internal/runq"
	"github.com/ptbase/prism-go/internal/state"
)

// DefaultTimeout is the shared wall-clock deadline applied to a whole batch
// when none has been configured with [Executor.SetTimeout].
const DefaultTimeout = 2000 * time.Millisecond

// DefaultCancelGrace is the window the executor waits after requesting
// cancellation before force-marking stragglers and returning. See
// [Executor.SetCancelGrace].
const DefaultCancelGrace = 50 * time.Millisecond

// A ProvisionFunc decides how many workers to allocate for a batch of the
// given size. The returned value is clamped to [1, batchSize].
type ProvisionFunc func(batchSize int) int

// An Executor runs batches of algorithm tasks in parallel under a shared
// deadline. The zero value is ready to use with default configuration; all
// setters are thread-safe and take effect for subsequent batches.
//
// An Executor holds no per-batch state and may be shared freely across
// goroutines and reused for any number of batches.
type Executor struct {
	timeout     state.DynamicValue[time.Duration]
	cancelGrace state.DynamicValue[time.Duration]
	provision   state.DynamicValue[ProvisionFunc]
	maxRounds   state.DynamicValue[int]
	logger      state.DynamicValue[*zap.Logger]
	metrics     state.DynamicValue[*Metrics]
}

// NewExecutor creates an executor with default configuration: a timeout of
// [DefaultTimeout], a cancel grace of [DefaultCancelGrace], one worker per
// task, no quota round cap, no logging, and no metrics.
func NewExecutor() *Executor {
	return &Executor{}
}

// Timeout returns the currently configured batch deadline.
func (ex *Executor) Timeout() time.Duration {
	if d, _ := ex.timeout.Load(); d > 0 {
		return d
	}
	return DefaultTimeout
}

// SetTimeout configures the shared deadline applied to each batch as a whole,
// not per task. Non-positive values restore [DefaultTimeout].
func (ex *Executor) SetTimeout(d time.Duration) {
	ex.timeout.Store(d)
}

// CancelGrace returns the currently configured watchdog window.
func (ex *Executor) CancelGrace() time.Duration {
	if d, _ := ex.cancelGrace.Load(); d > 0 {
		return d
	}
	return DefaultCancelGrace
}

// SetCancelGrace configures how long the executor waits, after the deadline
// has expired and cancellation has been requested, for tasks to exit
// cooperatively. Tasks still running when the window closes are force-marked
// [StatusCanceled] so the caller is never blocked by an algorithm that does
// not poll its context; the worker goroutine of such an algorithm keeps
// running until the algorithm's own logic completes. Non-positive values
// restore [DefaultCancelGrace].
func (ex *Executor) SetCancelGrace(d time.Duration) {
	ex.cancelGrace.Store(d)
}

// SetProvision configures the worker provisioning strategy. The default (and
// the effect of passing nil) is one worker per task, so within a batch every
// task runs concurrently. A smaller allocation bounds concurrency and leaves
// excess tasks queued until a worker frees up.
func (ex *Executor) SetProvision(f ProvisionFunc) {
	ex.provision.Store(f)
}

// SetLogger configures structured logging for batch and quota progress. The
// default (and the effect of passing nil) is no logging.
func (ex *Executor) SetLogger(logger *zap.Logger) {
	ex.logger.Store(logger)
}

// SetMetrics attaches a [Metrics] value whose collectors the executor will
// update. The default (and the effect of passing nil) is no metrics.
func (ex *Executor) SetMetrics(m *Metrics) {
	ex.metrics.Store(m)
}

func (ex *Executor) log() *zap.Logger {
	if l, _ := ex.logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

func (ex *Executor) provisionWorkers(batchSize int) int {
	f, _ := ex.provision.Load()
	if f == nil {
		return batchSize
	}
	n := f(batchSize)
	if n < 1 {
		return 1
	}
	if n > batchSize {
		return batchSize
	}
	return n
}

// Execute runs one task per argument in parallel on ex's worker allocation
// and blocks until every task has reached a terminal state or the batch
// deadline has expired. On expiry it requests cooperative cancellation of
// every non-terminal task, waits up to the cancel grace for them to exit, and
// force-marks whatever is left. The returned slice always has exactly
// len(args) slots in argument order, independent of completion order; slot i
// is usable only if task i finished in time. An individual task's failure
// never aborts its siblings or the batch.
//
// Execute returns [ErrNoArguments] before creating any task if args is empty.
// Cancellation of ctx is handled like an early deadline: the full-length
// slice is still returned, along with the context's error.
func Execute[A, R any](ctx context.Context, ex *Executor, alg Algorithm[A, R], args []A) ([]Result[R], error) {
	if ex == nil {
		panic("executor must be non-nil")
	}
	if alg == nil {
		panic("algorithm must be non-nil")
	}
	if len(args) == 0 {
		return nil, ErrNoArguments
	}

	logger := ex.log()
	timeout := ex.Timeout()

	batchCtx, cancelBatch := context.WithCancel(ctx)
	defer cancelBatch()

	tasks := make([]*Task[A, R], len(args))
	var queue runq.Queue[*Task[A, R]]
	var inFlight state.InFlightCounter
	for i, arg := range args {
		t := NewTask(batchCtx, alg, arg)
		tasks[i] = t
		inFlight.Increment()
		queue.PushBack(t)
	}

	workers := ex.provisionWorkers(len(args))
	logger.Debug("new batch execution",
		zap.String("algorithm", algorithmName(alg)),
		zap.Int("arguments", len(args)),
		zap.Int("workers", workers),
		zap.Duration("timeout", timeout))

	start := time.Now()

	// Buffered to the batch size so a worker completing after the deadline
	// paths below have returned never blocks.
	done := make(chan struct{}, len(args))
	for range workers {
		go func() {
			for {
				t, ok := queue.PopFront()
				if !ok {
					return
				}
				t.Run()
				inFlight.Decrement()
				done <- struct{}{}
			}
		}()
	}

	// Await all tasks terminal, up to the shared deadline.
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	completed := 0
	interrupted := false
awaiting:
	for completed < len(tasks) {
		select {
		case <-done:
			completed++
		case <-timer.C:
			interrupted = true
			break awaiting
		case <-ctx.Done():
			interrupted = true
			break awaiting
		}
	}

	if interrupted {
		logger.Warn("batch interrupted before completion",
			zap.Duration("timeout", timeout),
			zap.Int64("in_flight", inFlight.Value()),
			zap.NamedError("context_err", ctx.Err()))

		// Request a cooperative stop of everything still going, then give the
		// stragglers the grace window to drain.
		for _, t := range tasks {
			if !t.Status().Terminal() {
				t.Cancel()
			}
		}
		graceTimer := time.NewTimer(ex.CancelGrace())
		defer graceTimer.Stop()
	draining:
		for completed < len(tasks) {
			select {
			case <-done:
				completed++
			case <-graceTimer.C:
				break draining
			}
		}

		// Watchdog: force-mark whatever did not stop, so the caller gets its
		// results even if a worker goroutine leaks.
		for _, t := range tasks {
			if !t.Status().Terminal() {
				logger.Warn("task did not honor cancellation within grace",
					zap.Stringer("status", t.Status()))
				t.forceCancel()
			}
		}
	}

	results := make([]Result[R], len(tasks))
	var finished, canceled, failed int
	for i, t := range tasks {
		if v, ok := t.Result(); ok {
			results[i] = Result[R]{Value: v}
			finished++
			continue
		}
		err := t.Err()
		if err == nil {
			err = ErrTaskCanceled
		}
		results[i] = Result[R]{Err: err}
		if t.Status() == StatusFailed {
			failed++
			logger.Debug("task failed", zap.Error(err))
		} else {
			canceled++
		}
	}

	elapsed := time.Since(start)
	logger.Debug("batch complete",
		zap.Int("finished", finished),
		zap.Int("canceled", canceled),
		zap.Int("failed", failed),
		zap.Duration("elapsed", elapsed))
	if m, _ := ex.metrics.Load(); m != nil {
		m.observeBatch(elapsed, interrupted, finished, canceled, failed)
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func algorithmName(alg any) string {
	if s, ok := alg.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", alg)
}
