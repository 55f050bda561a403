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
	"math/big"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/SecPriv/EtherTrust-sub001/base/stringseq"
)

type (
	// Value is a runtime primitive value: an integer, a boolean, or an array.
	// Values are produced by selector functions and by the evaluation of
	// constant expressions.
	Value interface {
		Node
		value()

		// Type of the value.
		Type() Type

		// String representation of the value.
		// The representation is used to build the name of ground predicates.
		String() string
	}

	// IntValue is an arbitrary-precision integer value.
	IntValue struct {
		Val *big.Int
	}

	// BoolValue is a boolean value.
	BoolValue struct {
		Val bool
	}

	// ArrayValue is a persistent functional array:
	// every index maps to Init unless it has been overridden.
	ArrayValue struct {
		Elem      Type
		Init      Value
		overrides map[string]ArrayEntry
	}

	// CustomValue is a value of a custom type.
	// Custom values only exist before the layout of custom types.
	CustomValue struct {
		Ctor   *Constructor
		Fields []Value
	}

	// ArrayEntry is an overridden entry in an array value.
	ArrayEntry struct {
		Index *big.Int
		Val   Value
	}
)

var (
	_ Value = (*IntValue)(nil)
	_ Value = (*BoolValue)(nil)
	_ Value = (*ArrayValue)(nil)
	_ Value = (*CustomValue)(nil)
)

// IntVal returns an integer value.
func IntVal(x int64) *IntValue {
	return &IntValue{Val: big.NewInt(x)}
}

// BoolVal returns a boolean value.
func BoolVal(x bool) *BoolValue {
	return &BoolValue{Val: x}
}

func (*IntValue) node()  {}
func (*IntValue) value() {}

// Type of the value.
func (*IntValue) Type() Type { return Int() }

func (v *IntValue) String() string { return v.Val.String() }

func (*BoolValue) node()  {}
func (*BoolValue) value() {}

// Type of the value.
func (*BoolValue) Type() Type { return Bool() }

func (v *BoolValue) String() string {
	if v.Val {
		return "true"
	}
	return "false"
}

// NewArrayValue returns an array where all elements are init.
func NewArrayValue(elem Type, init Value) *ArrayValue {
	return &ArrayValue{Elem: elem, Init: init}
}

func (*ArrayValue) node()  {}
func (*ArrayValue) value() {}

// Type of the value.
func (v *ArrayValue) Type() Type { return Array(v.Elem) }

// Select returns the element at a given index.
func (v *ArrayValue) Select(index *big.Int) Value {
	if entry, ok := v.overrides[index.String()]; ok {
		return entry.Val
	}
	return v.Init
}

// Store returns a new array where the element at index has been set to val.
// The receiver is left unchanged.
func (v *ArrayValue) Store(index *big.Int, val Value) *ArrayValue {
	overrides := make(map[string]ArrayEntry, len(v.overrides)+1)
	for k, entry := range v.overrides {
		overrides[k] = entry
	}
	key := index.String()
	if ValueEqual(val, v.Init) {
		delete(overrides, key)
	} else {
		overrides[key] = ArrayEntry{Index: new(big.Int).Set(index), Val: val}
	}
	return &ArrayValue{Elem: v.Elem, Init: v.Init, overrides: overrides}
}

// Overrides returns the entries which differ from the initial value, sorted by index.
func (v *ArrayValue) Overrides() []ArrayEntry {
	entries := maps.Values(v.overrides)
	slices.SortFunc(entries, func(a, b ArrayEntry) int {
		return a.Index.Cmp(b.Index)
	})
	return entries
}

func (v *ArrayValue) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("[%s", v.Init.String()))
	for _, entry := range v.Overrides() {
		s.WriteString(fmt.Sprintf(";%s:%s", entry.Index.String(), entry.Val.String()))
	}
	s.WriteString("]")
	return s.String()
}

func (*CustomValue) node()  {}
func (*CustomValue) value() {}

// Type of the value.
func (v *CustomValue) Type() Type { return v.Ctor.Type }

func (v *CustomValue) String() string {
	if len(v.Fields) == 0 {
		return v.Ctor.Name
	}
	return fmt.Sprintf("%s(%s)", v.Ctor.Name, stringseq.JoinStringers(v.Fields, ","))
}

// ValueEqual returns true if two values are equal.
// Arrays are compared element-wise.
func ValueEqual(x, y Value) bool {
	switch xT := x.(type) {
	case *IntValue:
		yT, ok := y.(*IntValue)
		return ok && xT.Val.Cmp(yT.Val) == 0
	case *BoolValue:
		yT, ok := y.(*BoolValue)
		return ok && xT.Val == yT.Val
	case *ArrayValue:
		yT, ok := y.(*ArrayValue)
		if !ok || !ValueEqual(xT.Init, yT.Init) || len(xT.overrides) != len(yT.overrides) {
			return false
		}
		for k, entry := range xT.overrides {
			other, ok := yT.overrides[k]
			if !ok || !ValueEqual(entry.Val, other.Val) {
				return false
			}
		}
		return true
	case *CustomValue:
		yT, ok := y.(*CustomValue)
		if !ok || xT.Ctor != yT.Ctor || len(xT.Fields) != len(yT.Fields) {
			return false
		}
		for i, field := range xT.Fields {
			if !ValueEqual(field, yT.Fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ZeroValue returns the default value of a primitive type:
// 0 for integers, false for booleans, and arrays filled with the zero value of their elements.
// It returns nil for custom types.
func ZeroValue(tp Type) Value {
	switch tpT := tp.(type) {
	case BoolType:
		return BoolVal(false)
	case IntType:
		return IntVal(0)
	case *ArrayType:
		elem := ZeroValue(tpT.Elem)
		if elem == nil {
			return nil
		}
		return NewArrayValue(tpT.Elem, elem)
	}
	return nil
}
