// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package state

import (
	"sync/atomic"
)

// InFlightCounter tracks how many tasks of a batch have not yet reached a
// terminal state. The zero value is ready to use.
type InFlightCounter struct {
	v atomic.Int64
}

func (c *InFlightCounter) Increment() {
	c.v.Add(1)
}

// Decrement reduces the count by one and reports whether it reached zero.
func (c *InFlightCounter) Decrement() bool {
	newValue := c.v.Add(-1)
	if newValue < 0 {
		panic("there were no tasks in flight")
	}

	return newValue == 0
}

func (c *InFlightCounter) Value() int64 {
	return c.v.Load()
}

func (c *InFlightCounter) IsZero() bool {
	return c.v.Load() == 0
}
