// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

package prism

// A Result is one slot of a batch outcome. A slot holds a usable value only
// when its task finished; cancellation, failure, and timeout all surface
// uniformly as a missing value with the cause recorded in Err.
type Result[R any] struct {
	// Value is the algorithm's return value. Valid only when Err is nil.
	Value R
	// Err is nil when the task finished, [ErrTaskCanceled] when it was
	// canceled or timed out, and the recorded failure cause otherwise.
	Err error
}

// OK reports whether the slot holds a usable value.
func (r Result[R]) OK() bool {
	return r.Err == nil
}

// A Pair associates a generated argument with the usable result it produced.
// [ExecuteUntil] returns only pairs whose result was usable.
type Pair[A, R any] struct {
	Argument A
	Value    R
}
