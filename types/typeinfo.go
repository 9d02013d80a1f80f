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
	"fmt"
	"strings"
)

// Category is the top-level shape of a declared column type.
type Category int

const (
	CategoryPrimitive Category = iota
	CategoryList
	CategoryMap
	CategoryStruct
	CategoryUnion
)

func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "PRIMITIVE"
	case CategoryList:
		return "LIST"
	case CategoryMap:
		return "MAP"
	case CategoryStruct:
		return "STRUCT"
	case CategoryUnion:
		return "UNION"
	default:
		return "UNKNOWN"
	}
}

// PrimitiveCategory identifies a primitive column type.
// It is PrimitiveUnknown for non-primitive descriptors.
type PrimitiveCategory int

const (
	PrimitiveUnknown PrimitiveCategory = iota
	PrimitiveVoid
	PrimitiveBoolean
	PrimitiveByte
	PrimitiveShort
	PrimitiveInt
	PrimitiveLong
	PrimitiveFloat
	PrimitiveDouble
	PrimitiveDecimal
	PrimitiveString
	PrimitiveVarchar
	PrimitiveChar
	PrimitiveDate
	PrimitiveTimestamp
	PrimitiveBinary
)

var primitiveNames = map[PrimitiveCategory]string{
	PrimitiveVoid:      "void",
	PrimitiveBoolean:   "boolean",
	PrimitiveByte:      "tinyint",
	PrimitiveShort:     "smallint",
	PrimitiveInt:       "int",
	PrimitiveLong:      "bigint",
	PrimitiveFloat:     "float",
	PrimitiveDouble:    "double",
	PrimitiveDecimal:   "decimal",
	PrimitiveString:    "string",
	PrimitiveVarchar:   "varchar",
	PrimitiveChar:      "char",
	PrimitiveDate:      "date",
	PrimitiveTimestamp: "timestamp",
	PrimitiveBinary:    "binary",
}

func (p PrimitiveCategory) String() string {
	if name, ok := primitiveNames[p]; ok {
		return strings.ToUpper(name)
	}
	return "UNKNOWN"
}

// IsStringFamily reports whether values of this category are character data.
func (p PrimitiveCategory) IsStringFamily() bool {
	return p == PrimitiveString || p == PrimitiveVarchar || p == PrimitiveChar
}

// IsIntegral reports whether values of this category are whole numbers.
func (p PrimitiveCategory) IsIntegral() bool {
	switch p {
	case PrimitiveByte, PrimitiveShort, PrimitiveInt, PrimitiveLong:
		return true
	}
	return false
}

// TypeInfo is what the host engine tells a function about a declared argument.
type TypeInfo interface {
	// Category returns the top-level shape
	Category() Category
	// PrimitiveCategory returns the primitive kind, PrimitiveUnknown when not primitive
	PrimitiveCategory() PrimitiveCategory
	// TypeName returns the type as written in a table definition
	TypeName() string
}

// Descriptor is the default TypeInfo implementation.
type Descriptor struct {
	category  Category
	primitive PrimitiveCategory
	name      string
}

func (d *Descriptor) Category() Category                   { return d.category }
func (d *Descriptor) PrimitiveCategory() PrimitiveCategory { return d.primitive }
func (d *Descriptor) TypeName() string                     { return d.name }
func (d *Descriptor) String() string                       { return d.name }

// Commonly used descriptors
var (
	String = Primitive(PrimitiveString)
	Long   = Primitive(PrimitiveLong)
	Int    = Primitive(PrimitiveInt)
	Double = Primitive(PrimitiveDouble)
)

// Primitive returns the descriptor of a primitive type.
func Primitive(p PrimitiveCategory) *Descriptor {
	name, ok := primitiveNames[p]
	if !ok {
		name = "unknown"
	}
	return &Descriptor{category: CategoryPrimitive, primitive: p, name: name}
}

// Varchar returns a length-bounded string descriptor.
func Varchar(length int) *Descriptor {
	return &Descriptor{category: CategoryPrimitive, primitive: PrimitiveVarchar, name: fmt.Sprintf("varchar(%d)", length)}
}

// Char returns a fixed-length string descriptor.
func Char(length int) *Descriptor {
	return &Descriptor{category: CategoryPrimitive, primitive: PrimitiveChar, name: fmt.Sprintf("char(%d)", length)}
}

// ListOf returns an array descriptor.
func ListOf(elem TypeInfo) *Descriptor {
	return &Descriptor{category: CategoryList, name: "array<" + elem.TypeName() + ">"}
}

// MapOf returns a map descriptor.
func MapOf(key, value TypeInfo) *Descriptor {
	return &Descriptor{category: CategoryMap, name: "map<" + key.TypeName() + "," + value.TypeName() + ">"}
}

// StructOf returns a struct descriptor. fields are written as "name:type".
func StructOf(fields ...string) *Descriptor {
	return &Descriptor{category: CategoryStruct, name: "struct<" + strings.Join(fields, ",") + ">"}
}

// IsPrimitive reports whether t is a primitive type. A nil TypeInfo is not.
func IsPrimitive(t TypeInfo) bool {
	return t != nil && t.Category() == CategoryPrimitive
}

// IsStringFamily reports whether t is a string, varchar or char type.
func IsStringFamily(t TypeInfo) bool {
	return IsPrimitive(t) && t.PrimitiveCategory().IsStringFamily()
}

// IsIntegral reports whether t is an integral primitive type.
func IsIntegral(t TypeInfo) bool {
	return IsPrimitive(t) && t.PrimitiveCategory().IsIntegral()
}

// ParseTypeName parses a type name as it appears in a table definition,
// e.g. "string", "varchar(20)", "bigint", "array<string>".
// Complex type parameters are not validated.
func ParseTypeName(name string) (*Descriptor, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return nil, fmt.Errorf("empty type name")
	}
	switch {
	case strings.HasPrefix(n, "array<") && strings.HasSuffix(n, ">"):
		return &Descriptor{category: CategoryList, name: n}, nil
	case strings.HasPrefix(n, "map<") && strings.HasSuffix(n, ">"):
		return &Descriptor{category: CategoryMap, name: n}, nil
	case strings.HasPrefix(n, "struct<") && strings.HasSuffix(n, ">"):
		return &Descriptor{category: CategoryStruct, name: n}, nil
	case strings.HasPrefix(n, "uniontype<") && strings.HasSuffix(n, ">"):
		return &Descriptor{category: CategoryUnion, name: n}, nil
	}

	base := n
	if i := strings.IndexByte(n, '('); i > 0 {
		if !strings.HasSuffix(n, ")") {
			return nil, fmt.Errorf("malformed type name %q", name)
		}
		base = n[:i]
	}
	if base == "integer" {
		base = "int"
	}
	for p, pn := range primitiveNames {
		if pn == base {
			return &Descriptor{category: CategoryPrimitive, primitive: p, name: n}, nil
		}
	}
	return nil, fmt.Errorf("unknown type name %q", name)
}
