/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package aggregator

import (
	"github.com/rulego/hiveudf/types"
)

// BufferState is the lifecycle tag carried by a Buffer.
type BufferState int

const (
	// BufferFresh is a new or reset buffer
	BufferFresh BufferState = iota
	// BufferIterating has absorbed raw rows
	BufferIterating
	// BufferMerging has absorbed partial results
	BufferMerging
	// BufferTerminated has emitted its final value
	BufferTerminated
)

func (s BufferState) String() string {
	switch s {
	case BufferFresh:
		return "fresh"
	case BufferIterating:
		return "iterating"
	case BufferMerging:
		return "merging"
	case BufferTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Buffer is the aggregation buffer of one group.
// A buffer belongs to the task that created it and must not be shared
// between goroutines; tasks exchange PartialResult values instead.
type Buffer struct {
	sum   int64
	state BufferState
}

// Sum returns the running total.
func (b *Buffer) Sum() int64 {
	return b.sum
}

// State returns the lifecycle tag.
func (b *Buffer) State() BufferState {
	return b.state
}

func (b *Buffer) add(n int64, state BufferState) {
	b.sum += n
	b.state = state
}

func (b *Buffer) reset() {
	b.sum = 0
	b.state = BufferFresh
}

// PartialResult is the value a partial aggregation hands to the next phase.
// It is a copy of the buffer's sum at the time it was taken.
type PartialResult int64

// Evaluator runs one aggregate function over buffers.
//
// Init must be called once before any other method. After Init the
// evaluator is read-only, so one evaluator can serve buffers owned by
// different goroutines.
type Evaluator interface {
	// Init binds the mode and parameter types and returns the output type
	Init(mode Mode, params []types.TypeInfo) (types.TypeInfo, error)
	// Mode returns the mode bound by Init, 0 before Init
	Mode() Mode
	// NewBuffer allocates an empty buffer
	NewBuffer() (*Buffer, error)
	// Reset clears every contribution held by buf
	Reset(buf *Buffer) error
	// Iterate folds one input row into buf
	Iterate(buf *Buffer, args []interface{}) error
	// TerminatePartial snapshots buf for a later Merge
	TerminatePartial(buf *Buffer) (PartialResult, error)
	// Merge folds a partial result into buf. A nil partial is ignored
	Merge(buf *Buffer, partial interface{}) error
	// Terminate returns the final value of buf
	Terminate(buf *Buffer) (int64, error)
	// Evaluate emits whatever the current mode produces
	Evaluate(buf *Buffer) (interface{}, error)
}

// Resolver picks an evaluator from the declared argument types.
type Resolver interface {
	Resolve(argTypes []types.TypeInfo) (Evaluator, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(argTypes []types.TypeInfo) (Evaluator, error)

func (f ResolverFunc) Resolve(argTypes []types.TypeInfo) (Evaluator, error) {
	return f(argTypes)
}
