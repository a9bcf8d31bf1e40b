// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism_test

import (
	"context"
	"fmt"
	"time"

	prism "github.com/ptbase/prism-go"
)

func ExampleExecute() {
	ex := prism.NewExecutor()
	alg := prism.NewQuadraticAlgorithm()

	results, err := prism.Execute(context.Background(), ex, alg, []int64{5, 10, 50})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, res := range results {
		fmt.Println(res.Value)
	}
	// Output:
	// true
	// true
	// true
}

func ExampleExecuteUntil() {
	ex := prism.NewExecutor()
	// Within its default argument bounds the quadratic workload always
	// finishes well under the deadline, so one round suffices.
	alg := prism.NewQuadraticAlgorithm()

	pairs, err := prism.ExecuteUntil(context.Background(), ex, alg, 3)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(len(pairs))
	// Output:
	// 3
}

// stallingAlgorithm holds its worker until canceled, polling its context once
// per unit of work as the algorithm contract requires.
type stallingAlgorithm struct{}

func (stallingAlgorithm) Run(ctx context.Context, arg int64) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		time.Sleep(time.Millisecond)
	}
}

func (stallingAlgorithm) Generate() int64 { return 1 }

func ExampleExecutor_SetTimeout() {
	ex := prism.NewExecutor()
	ex.SetTimeout(30 * time.Millisecond)

	results, err := prism.Execute(context.Background(), ex, stallingAlgorithm{}, []int64{1})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(results[0].OK())
	fmt.Println(results[0].Err)
	// Output:
	// false
	// task canceled
}
