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
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/rulego/hiveudf/types"
)

// StringLengthSumName is the registered name of the string length sum aggregate.
const StringLengthSumName = "string_length_sum"

// StringLengthSumResolver resolves string_length_sum(col) for string-family columns.
type StringLengthSumResolver struct {
	nullPolicy types.NullPolicy
}

// NewStringLengthSumResolver creates a resolver whose evaluators apply the given NULL policy.
func NewStringLengthSumResolver(policy types.NullPolicy) *StringLengthSumResolver {
	if policy == "" {
		policy = types.NullAsZero
	}
	return &StringLengthSumResolver{nullPolicy: policy}
}

// WithNullPolicy returns a copy of the resolver using policy.
func (r *StringLengthSumResolver) WithNullPolicy(policy types.NullPolicy) Resolver {
	return NewStringLengthSumResolver(policy)
}

// Resolve checks the declared argument types and returns a fresh evaluator.
func (r *StringLengthSumResolver) Resolve(argTypes []types.TypeInfo) (Evaluator, error) {
	if len(argTypes) != 1 {
		return nil, &ArgumentCountError{Function: StringLengthSumName, Expected: 1, Got: len(argTypes)}
	}
	t := argTypes[0]
	if !types.IsPrimitive(t) {
		return nil, &ArgumentTypeError{Function: StringLengthSumName, Position: 0, Type: t,
			Reason: "only primitive type arguments are accepted"}
	}
	if !types.IsStringFamily(t) {
		return nil, &ArgumentTypeError{Function: StringLengthSumName, Position: 0, Type: t,
			Reason: "only string type arguments are accepted"}
	}
	return NewStringLengthSumEvaluator(r.nullPolicy), nil
}

// StringLengthSumEvaluator sums the character length of every input value.
type StringLengthSumEvaluator struct {
	mode       Mode
	input      types.TypeInfo
	nullPolicy types.NullPolicy
}

// NewStringLengthSumEvaluator creates an uninitialized evaluator.
func NewStringLengthSumEvaluator(policy types.NullPolicy) *StringLengthSumEvaluator {
	if policy == "" {
		policy = types.NullAsZero
	}
	return &StringLengthSumEvaluator{nullPolicy: policy}
}

func (e *StringLengthSumEvaluator) Init(mode Mode, params []types.TypeInfo) (types.TypeInfo, error) {
	if !mode.Valid() {
		return nil, &LifecycleError{Function: StringLengthSumName, Op: "init", Reason: fmt.Sprintf("unknown mode %s", mode)}
	}
	if len(params) != 1 {
		return nil, &ArgumentCountError{Function: StringLengthSumName, Expected: 1, Got: len(params)}
	}
	if e.mode != 0 {
		if e.mode == mode {
			return types.Long, nil
		}
		return nil, &LifecycleError{Function: StringLengthSumName, Op: "init", Mode: e.mode,
			Reason: fmt.Sprintf("already initialized, cannot switch to %s", mode)}
	}

	p := params[0]
	if mode.ConsumesRaw() {
		if !types.IsStringFamily(p) {
			return nil, &ArgumentTypeError{Function: StringLengthSumName, Position: 0, Type: p,
				Reason: "raw input must be a string type"}
		}
	} else if !types.IsIntegral(p) {
		return nil, &ArgumentTypeError{Function: StringLengthSumName, Position: 0, Type: p,
			Reason: "partial input must be an integral type"}
	}
	e.mode = mode
	e.input = p
	return types.Long, nil
}

func (e *StringLengthSumEvaluator) Mode() Mode {
	return e.mode
}

func (e *StringLengthSumEvaluator) NewBuffer() (*Buffer, error) {
	if e.mode == 0 {
		return nil, e.notInitialized("new buffer")
	}
	return &Buffer{}, nil
}

func (e *StringLengthSumEvaluator) Reset(buf *Buffer) error {
	if err := e.check("reset", buf, nil); err != nil {
		return err
	}
	buf.reset()
	return nil
}

func (e *StringLengthSumEvaluator) Iterate(buf *Buffer, args []interface{}) error {
	if err := e.check("iterate", buf, Mode.ConsumesRaw); err != nil {
		return err
	}
	if len(args) != 1 {
		return &ArgumentCountError{Function: StringLengthSumName, Expected: 1, Got: len(args)}
	}
	n, err := e.length(args[0])
	if err != nil {
		return err
	}
	return e.add(buf, n, BufferIterating, args[0])
}

func (e *StringLengthSumEvaluator) TerminatePartial(buf *Buffer) (PartialResult, error) {
	if err := e.check("terminatePartial", buf, Mode.ProducesPartial); err != nil {
		return 0, err
	}
	return PartialResult(buf.sum), nil
}

func (e *StringLengthSumEvaluator) Merge(buf *Buffer, partial interface{}) error {
	if err := e.check("merge", buf, Mode.ConsumesPartial); err != nil {
		return err
	}
	v, ok, err := partialValue(partial)
	if err != nil {
		return &TypeCoercionError{Function: StringLengthSumName, Value: partial, Target: e.input.TypeName(), Err: err}
	}
	if !ok {
		return nil
	}
	if v < 0 {
		return &TypeCoercionError{Function: StringLengthSumName, Value: partial, Target: e.input.TypeName(),
			Err: fmt.Errorf("negative partial sum %d", v)}
	}
	return e.add(buf, v, BufferMerging, partial)
}

func (e *StringLengthSumEvaluator) Terminate(buf *Buffer) (int64, error) {
	if err := e.check("terminate", buf, func(m Mode) bool { return !m.ProducesPartial() }); err != nil {
		return 0, err
	}
	buf.state = BufferTerminated
	return buf.sum, nil
}

func (e *StringLengthSumEvaluator) Evaluate(buf *Buffer) (interface{}, error) {
	if e.mode.ProducesPartial() {
		return e.TerminatePartial(buf)
	}
	return e.Terminate(buf)
}

// length returns the number of characters in the string form of v.
func (e *StringLengthSumEvaluator) length(v interface{}) (int64, error) {
	if v == nil {
		if e.nullPolicy == types.NullReject {
			return 0, &TypeCoercionError{Function: StringLengthSumName, Value: v, Target: e.input.TypeName(), Err: ErrNullElement}
		}
		return 0, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return 0, &TypeCoercionError{Function: StringLengthSumName, Value: v, Target: e.input.TypeName(), Err: err}
	}
	return int64(utf8.RuneCountInString(s)), nil
}

func (e *StringLengthSumEvaluator) add(buf *Buffer, n int64, state BufferState, value interface{}) error {
	if buf.sum > math.MaxInt64-n {
		return &TypeCoercionError{Function: StringLengthSumName, Value: value, Target: types.Long.TypeName(), Err: ErrOverflow}
	}
	buf.add(n, state)
	return nil
}

func (e *StringLengthSumEvaluator) check(op string, buf *Buffer, allowed func(Mode) bool) error {
	if e.mode == 0 {
		return e.notInitialized(op)
	}
	if buf == nil {
		return &LifecycleError{Function: StringLengthSumName, Op: op, Mode: e.mode, Reason: "nil aggregation buffer"}
	}
	if allowed != nil && !allowed(e.mode) {
		return &LifecycleError{Function: StringLengthSumName, Op: op, Mode: e.mode, Reason: "operation not allowed"}
	}
	return nil
}

func (e *StringLengthSumEvaluator) notInitialized(op string) error {
	return &LifecycleError{Function: StringLengthSumName, Op: op, Reason: "evaluator not initialized"}
}
