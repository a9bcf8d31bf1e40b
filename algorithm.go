// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

import (
	"context"
)

// An Algorithm represents a pluggable computation over one argument of type A
// producing a result of type R. Implementations carry their own argument
// generation policy and are constructed once and reused across many tasks and
// batches, so both methods must be thread-safe.
//
// Run executes the computation to completion for the given argument. The
// provided context must be respected for cancellation: implementations are
// expected to poll ctx at every unit of inner work so that cancellation
// latency is bounded by one unit of work rather than by the whole
// computation. A cooperative early exit is signaled by returning ctx.Err()
// (or any error wrapping [context.Canceled] or [context.DeadlineExceeded]);
// the executor records such an exit as a cancellation rather than a failure.
//
// Each Run invocation receives its own context, derived per task from the
// batch in which it executes. Cancelling one task therefore never cancels a
// sibling task running the same Algorithm instance, and no per-instance state
// needs to be reset between batches.
//
// If Run panics, the panic is recovered by the executing worker and recorded
// as the task's failure cause. It does not terminate the program and does not
// affect sibling tasks.
//
// Generate produces one candidate argument. The policy is
// implementation-defined; the algorithms shipped with this package draw
// uniformly at random from their declared argument bounds. Generate is called
// by [ExecuteUntil] to produce fresh batches in quota mode and must not
// block.
type Algorithm[A, R any] interface {
	Run(ctx context.Context, arg A) (R, error)
	Generate() A
}

func generateArguments[A, R any](alg Algorithm[A, R], n int) []A {
	args := make([]A, n)
	for i := range args {
		args[i] = alg.Generate()
	}
	return args
}
