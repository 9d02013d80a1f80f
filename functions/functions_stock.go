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
	"github.com/spf13/cast"
)

// Stock board labels
const (
	BoardSZSmallMedium = "SZ small/medium board"
	BoardSZGrowth      = "SZ growth board"
	BoardSHMain        = "SH main board"
	CodeError          = "code error"
)

// Classify maps a ticker to its market segment by the leading digit:
// 0 Shenzhen small/medium, 3 Shenzhen growth (ChiNext), 6 Shanghai main.
func Classify(code string) string {
	if len(code) == 0 {
		return CodeError
	}
	switch code[0] {
	case '0':
		return BoardSZSmallMedium
	case '3':
		return BoardSZGrowth
	case '6':
		return BoardSHMain
	default:
		return CodeError
	}
}

// StockBoardFunction is the scalar function stock_board(code).
type StockBoardFunction struct {
	*BaseFunction
}

func NewStockBoardFunction() *StockBoardFunction {
	return &StockBoardFunction{
		BaseFunction: NewBaseFunction("stock_board", TypeString, "stock", "Classify a stock code by its market segment", 1, 1),
	}
}

func (f *StockBoardFunction) Validate(args []interface{}) error {
	return f.ValidateArgCount(args)
}

// Execute never fails on the value itself: NULL and values without a
// string form classify as a code error.
func (f *StockBoardFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	if err := f.ValidateArgCount(args); err != nil {
		return nil, err
	}
	if args[0] == nil {
		return CodeError, nil
	}
	code, err := cast.ToStringE(args[0])
	if err != nil {
		return CodeError, nil
	}
	return Classify(code), nil
}
