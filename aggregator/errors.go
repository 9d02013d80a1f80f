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
	"errors"
	"fmt"

	"github.com/rulego/hiveudf/types"
)

// ArgumentCountError is returned when a function gets the wrong number of arguments.
type ArgumentCountError struct {
	Function string
	Expected int
	Got      int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: exactly %d argument(s) expected, got %d", e.Function, e.Expected, e.Got)
}

// ArgumentTypeError is returned when an argument's declared type is not accepted.
type ArgumentTypeError struct {
	Function string
	// Position is the zero-based argument index
	Position int
	Type     types.TypeInfo
	Reason   string
}

func (e *ArgumentTypeError) Error() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.TypeName()
	}
	return fmt.Sprintf("%s: argument %d: %s, %s is passed", e.Function, e.Position, e.Reason, name)
}

// TypeCoercionError is returned when a runtime value cannot be read as the
// type the evaluator was initialized with.
type TypeCoercionError struct {
	Function string
	Value    interface{}
	Target   string
	Err      error
}

func (e *TypeCoercionError) Error() string {
	msg := fmt.Sprintf("%s: cannot read %T value as %s", e.Function, e.Value, e.Target)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeCoercionError) Unwrap() error {
	return e.Err
}

// LifecycleError is returned when an operation is called out of order or in
// a mode that does not allow it.
type LifecycleError struct {
	Function string
	Op       string
	Mode     Mode
	Reason   string
}

func (e *LifecycleError) Error() string {
	if e.Mode.Valid() {
		return fmt.Sprintf("%s: %s in mode %s: %s", e.Function, e.Op, e.Mode, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Function, e.Op, e.Reason)
}

// ErrOverflow is wrapped by a TypeCoercionError when a sum would exceed bigint.
var ErrOverflow = errors.New("bigint overflow")

// ErrNullElement is wrapped by a TypeCoercionError when NULL input is rejected.
var ErrNullElement = errors.New("null element rejected")
