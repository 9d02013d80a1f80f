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
	"unicode/utf8"

	"github.com/spf13/cast"
)

// LengthFunction 字符串长度函数，按字符计数
type LengthFunction struct {
	*BaseFunction
}

func NewLengthFunction() *LengthFunction {
	return &LengthFunction{
		BaseFunction: NewBaseFunction("length", TypeString, "string", "Number of characters in a string", 1, 1),
	}
}

func (f *LengthFunction) Validate(args []interface{}) error {
	return f.ValidateArgCount(args)
}

// Execute returns NULL for a NULL argument.
func (f *LengthFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	if err := f.ValidateArgCount(args); err != nil {
		return nil, err
	}
	if args[0] == nil {
		return nil, nil
	}
	str, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, err
	}
	return int64(utf8.RuneCountInString(str)), nil
}
