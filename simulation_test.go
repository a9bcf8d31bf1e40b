// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism_test

import (
	"cmp"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/addrummond/heap"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	prism "github.com/ptbase/prism-go"
)

// Per-task behaviors drawn by the simulation.
const (
	behaviorFinish = iota
	behaviorFail
	behaviorBlock
)

type plannedTask struct {
	behavior int
	duration time.Duration
}

// workerFree is an event in the scheduling simulation: the moment a worker
// becomes available for the next queued task.
type workerFree struct {
	at time.Duration
}

func (a *workerFree) Cmp(b *workerFree) int {
	return cmp.Compare(a.at, b.at)
}

var errSimFail = errors.New("simulated failure")

// TestBySimulation drives the executor with randomly planned batches and
// checks every slot against a discrete-event simulation of the worker pool.
// Durations are kept far below the deadline so scheduling jitter cannot move
// a task across the timeout boundary.
func TestBySimulation(t *testing.T) {
	const (
		timeout = 60 * time.Millisecond
		grace   = 40 * time.Millisecond
	)

	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)

		batchSize := rapid.IntRange(1, 6).Draw(t, "batchSize")
		workers := rapid.IntRange(1, batchSize).Draw(t, "workers")

		plan := make([]plannedTask, batchSize)
		for i := range plan {
			plan[i] = plannedTask{
				behavior: rapid.SampledFrom([]int{
					behaviorFinish, behaviorFinish, behaviorFinish, behaviorFail, behaviorBlock,
				}).Draw(t, "behavior"),
				duration: time.Duration(rapid.IntRange(0, 3).Draw(t, "durationMs")) * time.Millisecond,
			}
		}

		// Simulate the FIFO run queue against an event heap of worker
		// availability. A task that never gets a worker (everything ahead of
		// it clogged by blockers) must come back canceled; anything that
		// starts finishes well under the deadline.
		var freeHeap heap.Heap[workerFree, heap.Min]
		for range workers {
			heap.PushOrderable(&freeHeap, workerFree{})
		}
		started := make([]bool, batchSize)
		for i, pt := range plan {
			w, ok := heap.PopOrderable(&freeHeap)
			if !ok {
				break // every worker is clogged for the rest of the batch
			}
			if pt.behavior == behaviorBlock {
				started[i] = true
				continue // worker never comes back
			}
			started[i] = true
			heap.PushOrderable(&freeHeap, workerFree{at: w.at + pt.duration})
		}

		alg := &stubAlgorithm[bool]{
			run: func(ctx context.Context, arg int64) (bool, error) {
				pt := plan[arg]
				switch pt.behavior {
				case behaviorFail:
					time.Sleep(pt.duration)
					return false, errSimFail
				case behaviorBlock:
					// Cooperative straggler: holds its worker until the batch
					// deadline cancels it.
					if err := pollUntil(ctx, time.Minute, time.Millisecond); err != nil {
						return false, err
					}
					return false, errors.New("blocker was never canceled")
				default:
					time.Sleep(pt.duration)
					return true, nil
				}
			},
		}

		ex := prism.NewExecutor()
		ex.SetTimeout(timeout)
		ex.SetCancelGrace(grace)
		ex.SetProvision(func(int) int { return workers })

		args := make([]int64, batchSize)
		for i := range args {
			args[i] = int64(i)
		}
		results, err := prism.Execute(context.Background(), ex, alg, args)
		chk.NoError(err)
		chk.Len(results, batchSize)

		for i, res := range results {
			pt := plan[i]
			switch {
			case !started[i] || pt.behavior == behaviorBlock:
				chk.ErrorIs(res.Err, prism.ErrTaskCanceled, "slot %d", i)
			case pt.behavior == behaviorFail:
				chk.ErrorIs(res.Err, errSimFail, "slot %d", i)
			default:
				chk.True(res.OK(), "slot %d", i)
				chk.True(res.Value, "slot %d", i)
			}
		}
	})
}
