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

	"github.com/spf13/cast"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EncodePartial serializes a partial result for shipping to another task.
// The wire form is a google.protobuf.Int64Value message.
func EncodePartial(p PartialResult) ([]byte, error) {
	return proto.Marshal(wrapperspb.Int64(int64(p)))
}

// DecodePartial is the inverse of EncodePartial.
func DecodePartial(data []byte) (PartialResult, error) {
	var v wrapperspb.Int64Value
	if err := proto.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("decode partial result: %w", err)
	}
	return PartialResult(v.GetValue()), nil
}

// partialValue reads the integer carried by a partial result as delivered by
// the host. ok is false for NULL partials.
func partialValue(partial interface{}) (value int64, ok bool, err error) {
	switch v := partial.(type) {
	case nil:
		return 0, false, nil
	case PartialResult:
		return int64(v), true, nil
	case *PartialResult:
		if v == nil {
			return 0, false, nil
		}
		return int64(*v), true, nil
	case *int64:
		if v == nil {
			return 0, false, nil
		}
		return *v, true, nil
	case []byte:
		p, err := DecodePartial(v)
		if err != nil {
			return 0, false, err
		}
		return int64(p), true, nil
	case *wrapperspb.Int64Value:
		if v == nil {
			return 0, false, nil
		}
		return v.GetValue(), true, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false, fmt.Errorf("value %d overflows bigint", v)
		}
	case uint64:
		if v > math.MaxInt64 {
			return 0, false, fmt.Errorf("value %d overflows bigint", v)
		}
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
	default:
		return 0, false, fmt.Errorf("unsupported partial result type %T", partial)
	}
	n, err := cast.ToInt64E(partial)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
