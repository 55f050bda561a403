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

// Package layout flattens the values of custom types into primitive values
// and compiles match expressions into conditional expressions.
//
// A value of a custom type is represented by a fixed number of primitive
// leaves, whatever its constructor. The first leaf is an integer tag holding
// the ordinal of the constructor. The other leaves are slots shared by the
// constructors: the fields of a constructor are assigned to slots of the same
// type and the slots not used by the constructor hold a default value.
package layout

import (
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// TagPosition is the position of the tag leaf in the flattened value of a custom type.
const TagPosition = 0

type (
	// Layout of a custom type.
	Layout struct {
		Type *ir.CustomType
		// Leaves are the types of the primitive leaves.
		Leaves []ir.Type
		// fields maps a constructor to the position of the leaves of every one of its fields.
		fields map[*ir.Constructor][][]int
	}

	// Layouter computes the layout of custom types.
	Layouter struct {
		layouts  map[*ir.CustomType]*Layout
		visiting map[*ir.CustomType]bool
		preds    map[*ir.Predicate]*ir.Predicate
	}
)

// New returns a new layouter.
func New() *Layouter {
	return &Layouter{
		layouts:  make(map[*ir.CustomType]*Layout),
		visiting: make(map[*ir.CustomType]bool),
		preds:    make(map[*ir.Predicate]*ir.Predicate),
	}
}

// Leaves returns the types of the primitive leaves of a type.
// A primitive type has a single leaf: itself.
// An array of a custom type is flattened into one array for every leaf of the custom type.
func (l *Layouter) Leaves(tp ir.Type) ([]ir.Type, error) {
	switch tpT := tp.(type) {
	case ir.BoolType, ir.IntType:
		return []ir.Type{tp}, nil
	case *ir.ArrayType:
		if ir.IsPrimitive(tpT) {
			return []ir.Type{tp}, nil
		}
		elems, err := l.Leaves(tpT.Elem)
		if err != nil {
			return nil, err
		}
		leaves := make([]ir.Type, len(elems))
		for i, elem := range elems {
			leaves[i] = ir.Array(elem)
		}
		return leaves, nil
	case *ir.CustomType:
		lay, err := l.Layout(tpT)
		if err != nil {
			return nil, err
		}
		return lay.Leaves, nil
	}
	return nil, fmterr.Internalf("type %T not supported", tp)
}

// LeavesAll returns the leaves of a list of types, concatenated.
func (l *Layouter) LeavesAll(tps []ir.Type) ([]ir.Type, error) {
	var leaves []ir.Type
	for _, tp := range tps {
		tpLeaves, err := l.Leaves(tp)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, tpLeaves...)
	}
	return leaves, nil
}

// Layout returns the layout of a custom type.
func (l *Layouter) Layout(tp *ir.CustomType) (*Layout, error) {
	if lay, ok := l.layouts[tp]; ok {
		return lay, nil
	}
	if l.visiting[tp] {
		return nil, fmterr.Internalf("type %s is recursive: it cannot be flattened", tp.Name)
	}
	l.visiting[tp] = true
	defer delete(l.visiting, tp)
	lay := &Layout{
		Type:   tp,
		Leaves: []ir.Type{ir.Int()},
		fields: make(map[*ir.Constructor][][]int, len(tp.Constructors)),
	}
	for _, ctor := range tp.Constructors {
		used := make(map[int]bool)
		positions := make([][]int, len(ctor.Fields))
		for i, field := range ctor.Fields {
			leaves, err := l.Leaves(field)
			if err != nil {
				return nil, err
			}
			for _, leaf := range leaves {
				pos := lay.slot(leaf, used)
				used[pos] = true
				positions[i] = append(positions[i], pos)
			}
		}
		lay.fields[ctor] = positions
	}
	l.layouts[tp] = lay
	return lay, nil
}

// slot returns the first slot of a given type not used yet by a constructor.
// A new slot is allocated if none is available.
func (lay *Layout) slot(tp ir.Type, used map[int]bool) int {
	for pos := TagPosition + 1; pos < len(lay.Leaves); pos++ {
		if !used[pos] && lay.Leaves[pos].Equal(tp) {
			return pos
		}
	}
	lay.Leaves = append(lay.Leaves, tp)
	return len(lay.Leaves) - 1
}

// Canonical returns true if the leaves of a value of a type are fully
// determined by the value, that is no constructor leaves a slot unused.
func (l *Layouter) Canonical(tp ir.Type) (bool, error) {
	switch tpT := tp.(type) {
	case *ir.ArrayType:
		return l.Canonical(tpT.Elem)
	case *ir.CustomType:
		lay, err := l.Layout(tpT)
		if err != nil {
			return false, err
		}
		for _, ctor := range tpT.Constructors {
			used := 0
			for field, fieldType := range ctor.Fields {
				used += len(lay.FieldPositions(ctor, field))
				canonical, err := l.Canonical(fieldType)
				if err != nil || !canonical {
					return false, err
				}
			}
			if used != len(lay.Leaves)-1 {
				return false, nil
			}
		}
	}
	return true, nil
}

// FieldPositions returns the positions of the leaves of a field of a constructor.
func (lay *Layout) FieldPositions(ctor *ir.Constructor, field int) []int {
	return lay.fields[ctor][field]
}

// Construct returns the leaves of a value built by a constructor
// given the leaves of its arguments.
func (lay *Layout) Construct(ctor *ir.Constructor, args [][]ir.Expr) ([]ir.Expr, error) {
	positions, ok := lay.fields[ctor]
	if !ok {
		return nil, fmterr.Internalf("constructor %s does not belong to type %s", ctor.Name, lay.Type.Name)
	}
	if len(args) != len(positions) {
		return nil, fmterr.Internalf("constructor %s has %d fields but %d arguments are given", ctor.Name, len(positions), len(args))
	}
	leaves := make([]ir.Expr, len(lay.Leaves))
	leaves[TagPosition] = ir.IntLiteral(int64(ctor.Ordinal))
	for i, arg := range args {
		if len(arg) != len(positions[i]) {
			return nil, fmterr.Internalf("field %d of constructor %s has %d leaves but the argument has %d", i, ctor.Name, len(positions[i]), len(arg))
		}
		for j, pos := range positions[i] {
			leaves[pos] = arg[j]
		}
	}
	for pos, leaf := range leaves {
		if leaf != nil {
			continue
		}
		leaves[pos] = ir.Literal(ir.ZeroValue(lay.Leaves[pos]))
	}
	return leaves, nil
}

// TagEquals returns the condition for a flattened value to be built by a constructor.
func (lay *Layout) TagEquals(ctor *ir.Constructor, leaves []ir.Expr) ir.Expr {
	return &ir.BinaryExpr{Op: ir.Eq, X: leaves[TagPosition], Y: ir.IntLiteral(int64(ctor.Ordinal))}
}

// Field returns the leaves of a field of a flattened value.
func (lay *Layout) Field(ctor *ir.Constructor, field int, leaves []ir.Expr) []ir.Expr {
	positions := lay.FieldPositions(ctor, field)
	res := make([]ir.Expr, len(positions))
	for i, pos := range positions {
		res[i] = leaves[pos]
	}
	return res
}
