// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Status describes where a [Task] is in its lifecycle. The only permitted
// transitions are StatusPending → StatusRunning and StatusRunning → one of
// the three terminal states; a task never leaves a terminal state.
type Status int32

const (
	// StatusPending means the task has been created but no worker has begun
	// executing it yet.
	StatusPending Status = iota
	// StatusRunning means a worker is executing the task's algorithm.
	StatusRunning
	// StatusFinished means the algorithm returned a value before cancellation
	// was requested. The task's result is valid.
	StatusFinished
	// StatusCanceled means the algorithm observed cancellation and returned
	// early, or the executor force-marked the task after the batch deadline.
	StatusCanceled
	// StatusFailed means the algorithm returned an unexpected error or
	// panicked. The cause is recorded on the task.
	StatusFailed
)

// Terminal reports whether s is one of the three terminal states.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusCanceled || s == StatusFailed
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusFinished:
		return "finished"
	case StatusCanceled:
		return "canceled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// A Task is one scheduled execution of an [Algorithm] against one argument.
// Tasks are created by [NewTask] with their own cancelable context derived
// from the supplied parent, so cancelling one task never affects a sibling
// running the same algorithm instance.
//
// All methods are safe for concurrent use. [Task.Status] always reflects the
// most recently completed transition; intermediate states are never visible.
type Task[A, R any] struct {
	alg Algorithm[A, R]
	arg A

	ctx        context.Context
	cancelFunc context.CancelFunc

	status     atomic.Int32
	startedAt  atomic.Int64 // unix nanos, zero until the task starts
	finishedAt atomic.Int64 // unix nanos, zero until the task is terminal

	// result and cause are written by the executing worker before its
	// terminal status transition and may be read only after observing the
	// corresponding terminal status: result for StatusFinished, cause for
	// StatusFailed. The status CAS is the publication point.
	result R
	cause  error
}

// NewTask creates a task binding the given algorithm and argument. The task's
// context is derived from ctx; cancelling ctx requests cooperative
// cancellation of this task along with any siblings sharing the same parent.
func NewTask[A, R any](ctx context.Context, alg Algorithm[A, R], arg A) *Task[A, R] {
	if alg == nil {
		panic("algorithm must be non-nil")
	}
	tctx, cancel := context.WithCancel(ctx)
	return &Task[A, R]{
		alg:        alg,
		arg:        arg,
		ctx:        tctx,
		cancelFunc: cancel,
	}
}

// Argument returns the argument the task was created with.
func (t *Task[A, R]) Argument() A {
	return t.arg
}

// Status returns the task's current lifecycle state.
func (t *Task[A, R]) Status() Status {
	return Status(t.status.Load())
}

// Result returns the recorded result and true if the task finished, or the
// zero value and false for every other state.
func (t *Task[A, R]) Result() (R, bool) {
	if t.Status() != StatusFinished {
		var zero R
		return zero, false
	}
	return t.result, true
}

// Err returns nil for a finished (or not yet terminal) task,
// [ErrTaskCanceled] for a canceled one, and the recorded cause for a failed
// one.
func (t *Task[A, R]) Err() error {
	switch t.Status() {
	case StatusCanceled:
		return ErrTaskCanceled
	case StatusFailed:
		return t.cause
	default:
		return nil
	}
}

// StartedAt returns the time execution began, or the zero time if the task
// has not started.
func (t *Task[A, R]) StartedAt() time.Time {
	return nanosToTime(t.startedAt.Load())
}

// FinishedAt returns the time the task reached a terminal state, or the zero
// time if it has not.
func (t *Task[A, R]) FinishedAt() time.Time {
	return nanosToTime(t.finishedAt.Load())
}

// Cancel requests cooperative cancellation by cancelling the task's context.
// It is safe to call at any time and from any goroutine, and calling it again
// (or calling it on an already-terminal task) has no additional effect. The
// algorithm decides when the request is honored; see [Algorithm].
func (t *Task[A, R]) Cancel() {
	t.cancelFunc()
}

// Run executes the task's algorithm synchronously in the calling goroutine.
// It is a no-op unless the task is still pending. A panicking algorithm is
// recovered and recorded as a failure with an [ErrTaskPanic] cause.
func (t *Task[A, R]) Run() {
	if !t.status.CompareAndSwap(int32(StatusPending), int32(StatusRunning)) {
		return
	}
	t.startedAt.Store(time.Now().UnixNano())

	// Release the context resources once the run is over, whichever way it
	// ends.
	defer t.cancelFunc()

	if t.ctx.Err() != nil {
		// Canceled while still queued.
		t.transition(StatusCanceled)
		return
	}

	defer func() {
		if p := recover(); p != nil {
			t.cause = fmt.Errorf("%w: %v", ErrTaskPanic, p)
			t.transition(StatusFailed)
		}
	}()

	value, err := t.alg.Run(t.ctx, t.arg)
	switch {
	case err == nil:
		t.result = value
		t.transition(StatusFinished)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		t.transition(StatusCanceled)
	default:
		t.cause = err
		t.transition(StatusFailed)
	}
}

// forceCancel marks a non-terminal task canceled regardless of whether its
// worker has stopped. A worker that later completes loses the status CAS, so
// its result is discarded and the task stays canceled.
func (t *Task[A, R]) forceCancel() {
	t.cancelFunc()
	if t.status.CompareAndSwap(int32(StatusPending), int32(StatusCanceled)) ||
		t.status.CompareAndSwap(int32(StatusRunning), int32(StatusCanceled)) {
		t.finishedAt.CompareAndSwap(0, time.Now().UnixNano())
	}
}

func (t *Task[A, R]) transition(to Status) {
	t.finishedAt.CompareAndSwap(0, time.Now().UnixNano())
	t.status.CompareAndSwap(int32(StatusRunning), int32(to))
}

func nanosToTime(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
