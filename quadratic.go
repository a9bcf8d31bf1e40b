// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

import (
	"context"
	"math/rand/v2"
)

// QuadraticAlgorithm is a synthetic quadratic-time workload: two nested loops
// of the argument's length with no business logic, polling the context at
// every loop level. It exists to exercise the executor and carries no
// semantic value.
type QuadraticAlgorithm struct {
	// MinArgument and MaxArgument bound the arguments Generate draws.
	MinArgument int64
	MaxArgument int64
}

// NewQuadraticAlgorithm creates the workload with its default argument bounds
// of [100, 1000].
func NewQuadraticAlgorithm() *QuadraticAlgorithm {
	return &QuadraticAlgorithm{
		MinArgument: 100,
		MaxArgument: 1000,
	}
}

// Run spins through arg² units of work, observing ctx at every unit.
func (a *QuadraticAlgorithm) Run(ctx context.Context, arg int64) (bool, error) {
	for i := int64(0); i < arg; i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		for j := int64(0); j < arg; j++ {
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

// Generate draws uniformly at random from the algorithm's argument bounds.
func (a *QuadraticAlgorithm) Generate() int64 {
	return uniformArgument(a.MinArgument, a.MaxArgument)
}

func (a *QuadraticAlgorithm) String() string {
	return "QuadraticAlgorithm"
}

// uniformArgument draws uniformly from [min, max], degenerating to min when
// the bounds are inverted or equal.
func uniformArgument(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + rand.Int64N(max-min+1)
}
