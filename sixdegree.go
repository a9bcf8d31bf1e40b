// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

import (
	"context"
)

// SixDegreeAlgorithm is a synthetic sixth-degree workload: six nested loops
// of the argument's length, polling the context at every loop level. For most
// of its argument range a run cannot complete within any reasonable batch
// deadline, which makes it a natural driver for the executor's cancellation
// and quota paths.
type SixDegreeAlgorithm struct {
	// MinArgument and MaxArgument bound the arguments Generate draws.
	MinArgument int64
	MaxArgument int64
}

// NewSixDegreeAlgorithm creates the workload with its default argument bounds
// of [3, 100].
func NewSixDegreeAlgorithm() *SixDegreeAlgorithm {
	return &SixDegreeAlgorithm{
		MinArgument: 3,
		MaxArgument: 100,
	}
}

// Run spins through arg⁶ units of work, observing ctx at every unit.
func (a *SixDegreeAlgorithm) Run(ctx context.Context, arg int64) (bool, error) {
	for i := int64(0); i < arg; i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		for j := int64(0); j < arg; j++ {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			for k := int64(0); k < arg; k++ {
				if err := ctx.Err(); err != nil {
					return false, err
				}
				for l := int64(0); l < arg; l++ {
					if err := ctx.Err(); err != nil {
						return false, err
					}
					for m := int64(0); m < arg; m++ {
						if err := ctx.Err(); err != nil {
							return false, err
						}
						for n := int64(0); n < arg; n++ {
							if err := ctx.Err(); err != nil {
								return false, err
							}
						}
					}
				}
			}
		}
	}
	return true, nil
}

// Generate draws uniformly at random from the algorithm's argument bounds.
func (a *SixDegreeAlgorithm) Generate() int64 {
	return uniformArgument(a.MinArgument, a.MaxArgument)
}

func (a *SixDegreeAlgorithm) String() string {
	return "SixDegreeAlgorithm"
}
