// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import (
	"fmt"

	"github.com/SecPriv/EtherTrust-sub001/base/stringseq"
)

// Kind of a type.
type Kind int

const (
	// InvalidKind is the zero kind.
	InvalidKind Kind = iota
	// BoolKind is the kind of booleans.
	BoolKind
	// IntKind is the kind of arbitrary-precision integers.
	IntKind
	// ArrayKind is the kind of integer-indexed arrays.
	ArrayKind
	// CustomKind is the kind of algebraic data types.
	CustomKind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case ArrayKind:
		return "array"
	case CustomKind:
		return "custom"
	}
	return "invalid"
}

type (
	// Type of a value.
	Type interface {
		Node

		// Kind of the type.
		Kind() Kind

		// Equal returns true if other is the same type.
		Equal(other Type) bool

		// String representation of the type.
		String() string
	}

	// BoolType is the type of booleans.
	BoolType struct{}

	// IntType is the type of arbitrary-precision integers.
	IntType struct{}

	// ArrayType is the type of arrays indexed by integers.
	ArrayType struct {
		Elem Type
	}

	// CustomType is an algebraic data type, that is a discriminated union of constructors.
	CustomType struct {
		Name         string
		Constructors []*Constructor
	}

	// Constructor of a custom type.
	Constructor struct {
		Name   string
		Fields []Type

		// Type owning the constructor.
		Type *CustomType
		// Ordinal is the index of the constructor in its type.
		Ordinal int
	}
)

var (
	_ Type = BoolType{}
	_ Type = IntType{}
	_ Type = (*ArrayType)(nil)
	_ Type = (*CustomType)(nil)
)

// Bool returns the boolean type.
func Bool() Type { return BoolType{} }

// Int returns the integer type.
func Int() Type { return IntType{} }

// Array returns the type of arrays with the given element type.
func Array(elem Type) *ArrayType { return &ArrayType{Elem: elem} }

func (BoolType) node() {}

// Kind of the type.
func (BoolType) Kind() Kind { return BoolKind }

// Equal returns true if other is the same type.
func (BoolType) Equal(other Type) bool { return other != nil && other.Kind() == BoolKind }

func (BoolType) String() string { return "bool" }

func (IntType) node() {}

// Kind of the type.
func (IntType) Kind() Kind { return IntKind }

// Equal returns true if other is the same type.
func (IntType) Equal(other Type) bool { return other != nil && other.Kind() == IntKind }

func (IntType) String() string { return "int" }

func (*ArrayType) node() {}

// Kind of the type.
func (*ArrayType) Kind() Kind { return ArrayKind }

// Equal returns true if other is an array with the same element type.
func (t *ArrayType) Equal(other Type) bool {
	otherT, ok := other.(*ArrayType)
	if !ok {
		return false
	}
	return t.Elem.Equal(otherT.Elem)
}

func (t *ArrayType) String() string { return fmt.Sprintf("array<%s>", t.Elem.String()) }

// NewCustomType returns a new custom type given its constructors.
// The type and ordinal of every constructor are set by the function.
func NewCustomType(name string, ctors ...*Constructor) *CustomType {
	tp := &CustomType{Name: name}
	tp.SetConstructors(ctors...)
	return tp
}

// SetConstructors sets the constructors of the type.
// It is only meant to be used while building recursive types.
func (t *CustomType) SetConstructors(ctors ...*Constructor) {
	t.Constructors = ctors
	for i, ctor := range ctors {
		ctor.Type = t
		ctor.Ordinal = i
	}
}

func (*CustomType) node() {}

// Kind of the type.
func (*CustomType) Kind() Kind { return CustomKind }

// Equal returns true if other is the same custom type.
// Custom types are identified by their name.
func (t *CustomType) Equal(other Type) bool {
	otherT, ok := other.(*CustomType)
	if !ok {
		return false
	}
	return t == otherT || t.Name == otherT.Name
}

func (t *CustomType) String() string { return t.Name }

// Constructor returns a constructor given its name or nil if not found.
func (t *CustomType) Constructor(name string) *Constructor {
	for _, ctor := range t.Constructors {
		if ctor.Name == name {
			return ctor
		}
	}
	return nil
}

func (*Constructor) node() {}

func (c *Constructor) String() string {
	if len(c.Fields) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s(%s)", c.Name, stringseq.JoinStringers(c.Fields, ", "))
}

// IsPrimitive returns true if a type is built only from booleans, integers, and arrays of primitive types.
func IsPrimitive(tp Type) bool {
	switch tpT := tp.(type) {
	case BoolType, IntType:
		return true
	case *ArrayType:
		return IsPrimitive(tpT.Elem)
	}
	return false
}

// TypesEqual returns true if two lists of types are equal.
func TypesEqual(xs, ys []Type) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i, x := range xs {
		if !x.Equal(ys[i]) {
			return false
		}
	}
	return true
}
