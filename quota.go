// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

import (
	"context"

	"go.uber.org/zap"
)

// MaxRounds returns the currently configured quota round cap. Zero means no
// cap.
func (ex *Executor) MaxRounds() int {
	n, _ := ex.maxRounds.Load()
	if n < 0 {
		return 0
	}
	return n
}

// SetMaxRounds bounds how many batches [ExecuteUntil] may run before giving
// up with [ErrQuotaUnreachable]. The default of zero keeps the loop unbounded,
// in which case an algorithm that can never produce a usable result makes
// ExecuteUntil loop until its context is canceled.
func (ex *Executor) SetMaxRounds(n int) {
	ex.maxRounds.Store(n)
}

// ExecuteUntil repeatedly draws minResults fresh arguments from the
// algorithm's generator and runs them as one batch through [Execute],
// accumulating the (argument, value) pairs whose result was usable, until the
// accumulator holds at least minResults entries. Batches run strictly
// sequentially, the accumulator is append-only across rounds, and arguments
// are regenerated rather than deduplicated, so duplicates may appear.
//
// ExecuteUntil returns [ErrNonPositiveQuota] if minResults is not positive.
// If the executor's round cap is exhausted first it returns the partial
// accumulator together with [ErrQuotaUnreachable]; if ctx is canceled it
// returns the partial accumulator together with the context's error.
func ExecuteUntil[A, R any](ctx context.Context, ex *Executor, alg Algorithm[A, R], minResults int) ([]Pair[A, R], error) {
	if ex == nil {
		panic("executor must be non-nil")
	}
	if alg == nil {
		panic("algorithm must be non-nil")
	}
	if minResults <= 0 {
		return nil, ErrNonPositiveQuota
	}

	logger := ex.log()
	maxRounds := ex.MaxRounds()

	var pairs []Pair[A, R]
	for round := 1; len(pairs) < minResults; round++ {
		if err := ctx.Err(); err != nil {
			return pairs, err
		}
		if maxRounds > 0 && round > maxRounds {
			logger.Warn("result quota not reached",
				zap.Int("rounds", maxRounds),
				zap.Int("accumulated", len(pairs)),
				zap.Int("wanted", minResults))
			return pairs, ErrQuotaUnreachable
		}
		logger.Debug("quota round",
			zap.Int("round", round),
			zap.Int("accumulated", len(pairs)),
			zap.Int("wanted", minResults))

		args := generateArguments(alg, minResults)
		results, err := Execute(ctx, ex, alg, args)
		if err != nil {
			return pairs, err
		}
		for i, res := range results {
			if res.OK() {
				pairs = append(pairs, Pair[A, R]{Argument: args[i], Value: res.Value})
			}
		}
		if m, _ := ex.metrics.Load(); m != nil {
			m.observeQuotaRound()
		}
	}
	return pairs, nil
}
