// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrNoArguments is returned by [Execute] when the argument list is empty. No
// tasks are created in that case.
const ErrNoArguments = constError("arguments must not be empty")

// ErrNonPositiveQuota is returned by [ExecuteUntil] when the requested
// minimum number of results is zero or negative.
const ErrNonPositiveQuota = constError("number of results must be positive")

// ErrQuotaUnreachable is returned by [ExecuteUntil] together with the partial
// accumulator when the configured round cap is exhausted before the quota has
// been met. See [Executor.SetMaxRounds].
const ErrQuotaUnreachable = constError("result quota not reached within round limit")

// ErrTaskPanic is recorded as a task's failure cause when its algorithm
// panics. The panic is recovered inside the worker goroutine and never aborts
// sibling tasks or the batch.
const ErrTaskPanic = constError("task panicked")

// ErrTaskCanceled is reported through [Result.Err] for a slot whose task was
// canceled, either cooperatively or by the executor's watchdog after the
// batch deadline.
const ErrTaskCanceled = constError("task canceled")
