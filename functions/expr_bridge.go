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


package functions

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expression is a compiled row expression such as `stock_board(code)`.
// It is safe for concurrent use.
type Expression struct {
	source  string
	program *vm.Program
}

// functionOptions exposes every registered function to expr, under its
// lower and upper case names.
func functionOptions() []expr.Option {
	all := ListAll()
	options := make([]expr.Option, 0, 2*len(all))
	for name, fn := range all {
		// 为了避免闭包问题，使用立即执行函数
		wrapped := func(function Function) func(params ...interface{}) (interface{}, error) {
			return func(params ...interface{}) (interface{}, error) {
				if err := function.Validate(params); err != nil {
					return nil, err
				}
				return function.Execute(&FunctionContext{}, params)
			}
		}(fn)
		options = append(options, expr.Function(name, wrapped))
		if upper := strings.ToUpper(name); upper != name {
			options = append(options, expr.Function(upper, wrapped))
		}
	}
	return options
}

// CompileExpression compiles src against the functions registered at call
// time. Row fields are free variables; a field missing from a row reads as nil.
func CompileExpression(src string) (*Expression, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	options := append([]expr.Option{expr.AllowUndefinedVariables()}, functionOptions()...)
	program, err := expr.Compile(src, options...)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", src, err)
	}
	return &Expression{source: src, program: program}, nil
}

// Evaluate runs the expression over one row.
func (e *Expression) Evaluate(row map[string]interface{}) (interface{}, error) {
	if row == nil {
		row = map[string]interface{}{}
	}
	out, err := expr.Run(e.program, row)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", e.source, err)
	}
	return out, nil
}

func (e *Expression) String() string {
	return e.source
}

// EvaluateExpression compiles and evaluates src in one step.
func EvaluateExpression(src string, row map[string]interface{}) (interface{}, error) {
	e, err := CompileExpression(src)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(row)
}
