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


package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveDescriptors(t *testing.T) {
	assert.True(t, IsPrimitive(String))
	assert.True(t, IsStringFamily(String))
	assert.True(t, IsStringFamily(Varchar(10)))
	assert.True(t, IsStringFamily(Char(3)))
	assert.False(t, IsStringFamily(Long))
	assert.True(t, IsIntegral(Long))
	assert.True(t, IsIntegral(Int))
	assert.False(t, IsIntegral(Double))
	assert.Equal(t, "bigint", Long.TypeName())
	assert.Equal(t, "varchar(10)", Varchar(10).TypeName())
	assert.Equal(t, "STRING", PrimitiveString.String())
}

func TestComplexDescriptors(t *testing.T) {
	list := ListOf(String)
	assert.Equal(t, CategoryList, list.Category())
	assert.Equal(t, PrimitiveUnknown, list.PrimitiveCategory())
	assert.Equal(t, "array<string>", list.TypeName())
	assert.False(t, IsPrimitive(list))
	assert.False(t, IsStringFamily(list))

	m := MapOf(String, Long)
	assert.Equal(t, "map<string,bigint>", m.TypeName())
	assert.Equal(t, "MAP", m.Category().String())

	s := StructOf("a:int", "b:string")
	assert.Equal(t, "struct<a:int,b:string>", s.TypeName())
	assert.False(t, IsPrimitive(nil))
}

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		category  Category
		primitive PrimitiveCategory
		hasErr    bool
	}{
		{"string", "string", CategoryPrimitive, PrimitiveString, false},
		{"upper case", "STRING", CategoryPrimitive, PrimitiveString, false},
		{"varchar", "varchar(32)", CategoryPrimitive, PrimitiveVarchar, false},
		{"char", "char(6)", CategoryPrimitive, PrimitiveChar, false},
		{"bigint", "bigint", CategoryPrimitive, PrimitiveLong, false},
		{"integer alias", "integer", CategoryPrimitive, PrimitiveInt, false},
		{"decimal", "decimal(10,2)", CategoryPrimitive, PrimitiveDecimal, false},
		{"array", "array<string>", CategoryList, PrimitiveUnknown, false},
		{"map", "map<string,int>", CategoryMap, PrimitiveUnknown, false},
		{"struct", "struct<a:int>", CategoryStruct, PrimitiveUnknown, false},
		{"empty", "  ", 0, 0, true},
		{"unknown", "blob", 0, 0, true},
		{"malformed", "varchar(10", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseTypeName(tt.input)
			if tt.hasErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.category, d.Category())
			assert.Equal(t, tt.primitive, d.PrimitiveCategory())
		})
	}
}
