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


/*
Package functions provides the scalar function registry for hiveudf.

# Built-in Functions

	STOCK_BOARD(code)  - Market segment of a stock code
	LENGTH(str)        - Number of characters in a string

stock_board looks at the first character of the code only:

	'0' -> "SZ small/medium board"
	'3' -> "SZ growth board"
	'6' -> "SH main board"
	anything else, empty or NULL -> "code error"

# Custom Function Registration

	functions.RegisterCustomFunction(
		"exchange_of",
		functions.TypeCustom,
		"stock",
		"Exchange suffix of a stock code",
		1, 1,
		func(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
			if functions.Classify(cast.ToString(args[0])) == functions.BoardSHMain {
				return "SH", nil
			}
			return "SZ", nil
		},
	)

# Expressions

Registered functions can be called from row expressions compiled with
expr-lang/expr. Names are accepted in lower or upper case:

	e, _ := functions.CompileExpression("stock_board(code)")
	board, _ := e.Evaluate(map[string]interface{}{"code": "600001"})

Functions registered after an expression is compiled are not visible to it.
*/
package functions
