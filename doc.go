// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

// Package prism provides an API for executing batches of independent,
// potentially long-running algorithm instances in parallel under a shared
// wall-clock deadline. Each batch runs one task per input argument, waits up
// to a configurable timeout for the whole batch, and cooperatively cancels
// any task still running once the deadline expires. Results are returned in
// argument order, with a missing value uniformly encoding every non-success
// outcome (cancellation, failure, or timeout).
//
// Since some algorithms cannot produce a usable result for every argument,
// prism also provides a quota mode: [ExecuteUntil] repeatedly draws fresh
// arguments from the algorithm's own generator and runs them batch by batch,
// accumulating usable (argument, result) pairs until a requested minimum has
// been reached.
//
// Cancellation is cooperative, not preemptive. An [Algorithm] receives a
// context and is expected to poll it at every unit of inner work; an
// implementation that never polls cannot be stopped and will continue to
// occupy its goroutine past the deadline. The executor bounds the caller's
// wait regardless: after a grace window it marks such stragglers canceled and
// returns, accepting the leaked goroutine as the cost of the cooperative
// contract.
package prism
