// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism_test

import (
	"context"
	"sync/atomic"
	"time"
)

// stubAlgorithm is a test algorithm with pluggable behavior. The zero value
// runs instantly, returns true, and generates zeros.
type stubAlgorithm[R any] struct {
	run      func(ctx context.Context, arg int64) (R, error)
	generate func() int64
	runCount atomic.Int64
}

func (s *stubAlgorithm[R]) Run(ctx context.Context, arg int64) (R, error) {
	s.runCount.Add(1)
	if s.run != nil {
		return s.run(ctx, arg)
	}
	var zero R
	return zero, nil
}

func (s *stubAlgorithm[R]) Generate() int64 {
	if s.generate != nil {
		return s.generate()
	}
	return 0
}

// pollUntil spins in poll-sized steps for the given duration, returning early
// with ctx.Err() as soon as cancellation is observed.
func pollUntil(ctx context.Context, d, poll time.Duration) error {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		time.Sleep(poll)
	}
	return nil
}

// sequence returns a generator producing 1, 2, 3, ...
func sequence() func() int64 {
	var next atomic.Int64
	return func() int64 {
		return next.Add(1)
	}
}
