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

package layout

import (
	"maps"

	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// leafSeparator separates the name of a variable of a custom type from the index of a leaf.
const leafSeparator = "_"

type (
	// scope maps local variables to their leaves.
	scope map[string][]ir.Expr

	flattener struct {
		l *Layouter
		// free maps free variables of custom types to their leaves.
		free map[string][]ir.Expr
	}
)

func (s scope) with(name string, leaves []ir.Expr) scope {
	res := maps.Clone(s)
	if res == nil {
		res = make(scope)
	}
	res[name] = leaves
	return res
}

// Flatten returns the primitive leaves of an expression.
// The expression cannot reference free variables of a custom type.
func (l *Layouter) Flatten(x ir.Expr) ([]ir.Expr, error) {
	f := &flattener{l: l}
	return f.flatten(nil, x)
}

// one flattens an expression of a primitive type.
func (f *flattener) one(sc scope, x ir.Expr) (ir.Expr, error) {
	leaves, err := f.flatten(sc, x)
	if err != nil {
		return nil, err
	}
	if len(leaves) != 1 {
		return nil, fmterr.Internalf("%s has %d leaves: a single leaf expected", x, len(leaves))
	}
	return leaves[0], nil
}

func (f *flattener) all(sc scope, xs []ir.Expr) ([]ir.Expr, error) {
	var leaves []ir.Expr
	for _, x := range xs {
		xLeaves, err := f.flatten(sc, x)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, xLeaves...)
	}
	return leaves, nil
}

func (f *flattener) flatten(sc scope, x ir.Expr) ([]ir.Expr, error) {
	switch xT := x.(type) {
	case *ir.IntLit, *ir.BoolLit, *ir.ParVarExpr:
		return []ir.Expr{x}, nil
	case *ir.ArrayLit:
		return f.flattenArrayLit(sc, xT)
	case *ir.VarExpr:
		if leaves, ok := sc[xT.Name]; ok {
			return leaves, nil
		}
		if !ir.IsPrimitive(xT.Typ) {
			return nil, fmterr.Internalf("variable %s of type %s is not bound", xT.Name, xT.Typ)
		}
		return []ir.Expr{x}, nil
	case *ir.FreeVarExpr:
		if ir.IsPrimitive(xT.Typ) {
			return []ir.Expr{x}, nil
		}
		leaves, ok := f.free[xT.Name]
		if !ok {
			return nil, fmterr.Internalf("free variable %s of type %s has not been flattened", xT.Name, xT.Typ)
		}
		return leaves, nil
	case *ir.BinaryExpr:
		return f.flattenBinary(sc, xT)
	case *ir.UnaryExpr:
		y, err := f.one(sc, xT.X)
		if err != nil {
			return nil, err
		}
		return []ir.Expr{&ir.UnaryExpr{Op: xT.Op, X: y}}, nil
	case *ir.SelectExpr:
		arrays, err := f.flatten(sc, xT.Array)
		if err != nil {
			return nil, err
		}
		index, err := f.one(sc, xT.Index)
		if err != nil {
			return nil, err
		}
		leaves := make([]ir.Expr, len(arrays))
		for i, array := range arrays {
			leaves[i] = &ir.SelectExpr{Array: array, Index: index}
		}
		return leaves, nil
	case *ir.StoreExpr:
		return f.flattenStore(sc, xT)
	case *ir.CondExpr:
		cond, err := f.one(sc, xT.Cond)
		if err != nil {
			return nil, err
		}
		thens, err := f.flatten(sc, xT.Then)
		if err != nil {
			return nil, err
		}
		elses, err := f.flatten(sc, xT.Else)
		if err != nil {
			return nil, err
		}
		if len(thens) != len(elses) {
			return nil, fmterr.Internalf("branches of %s have a different number of leaves", x)
		}
		leaves := make([]ir.Expr, len(thens))
		for i := range thens {
			leaves[i] = &ir.CondExpr{Cond: cond, Then: thens[i], Else: elses[i]}
		}
		return leaves, nil
	case *ir.ConstructorAppExpr:
		lay, err := f.l.Layout(xT.Ctor.Type)
		if err != nil {
			return nil, err
		}
		args := make([][]ir.Expr, len(xT.Args))
		for i, arg := range xT.Args {
			if args[i], err = f.flatten(sc, arg); err != nil {
				return nil, err
			}
		}
		return lay.Construct(xT.Ctor, args)
	case *ir.MatchExpr:
		return f.flattenMatch(sc, xT)
	case *ir.ConstExpr:
		leaves, err := f.flatten(sc, xT.Value)
		if err != nil {
			return nil, err
		}
		if len(leaves) == 1 && ir.IsPrimitive(xT.Type()) {
			if leaves[0] == xT.Value {
				return []ir.Expr{x}, nil
			}
			return []ir.Expr{&ir.ConstExpr{Name: xT.Name, Value: leaves[0]}}, nil
		}
		return leaves, nil
	case *ir.SumExpr:
		return f.flattenSum(sc, xT)
	case *ir.AppExpr:
		return nil, fmterr.Internalf("cannot flatten %s: operations should have been inlined", x)
	}
	return nil, fmterr.Internalf("cannot flatten expression %T", x)
}

func (f *flattener) flattenArrayLit(sc scope, x *ir.ArrayLit) ([]ir.Expr, error) {
	inits, err := f.flatten(sc, x.Init)
	if err != nil {
		return nil, err
	}
	if len(inits) == 1 && inits[0] == x.Init {
		return []ir.Expr{x}, nil
	}
	leaves := make([]ir.Expr, len(inits))
	for i, init := range inits {
		leaves[i] = &ir.ArrayLit{Elem: init.Type(), Init: init}
	}
	return leaves, nil
}

func (f *flattener) flattenStore(sc scope, x *ir.StoreExpr) ([]ir.Expr, error) {
	arrays, err := f.flatten(sc, x.Array)
	if err != nil {
		return nil, err
	}
	index, err := f.one(sc, x.Index)
	if err != nil {
		return nil, err
	}
	vals, err := f.flatten(sc, x.Value)
	if err != nil {
		return nil, err
	}
	if len(arrays) != len(vals) {
		return nil, fmterr.Internalf("%s: array has %d leaves but the value has %d", x, len(arrays), len(vals))
	}
	leaves := make([]ir.Expr, len(arrays))
	for i, array := range arrays {
		leaves[i] = &ir.StoreExpr{Array: array, Index: index, Value: vals[i]}
	}
	return leaves, nil
}

func (f *flattener) flattenBinary(sc scope, x *ir.BinaryExpr) ([]ir.Expr, error) {
	if (x.Op == ir.Eq || x.Op == ir.Neq) && !ir.IsPrimitive(x.X.Type()) {
		eq, err := f.equal(sc, x.X, x.Y)
		if err != nil {
			return nil, err
		}
		if x.Op == ir.Neq {
			eq = &ir.UnaryExpr{Op: ir.Not, X: eq}
		}
		return []ir.Expr{eq}, nil
	}
	left, err := f.one(sc, x.X)
	if err != nil {
		return nil, err
	}
	right, err := f.one(sc, x.Y)
	if err != nil {
		return nil, err
	}
	if left == x.X && right == x.Y {
		return []ir.Expr{x}, nil
	}
	return []ir.Expr{&ir.BinaryExpr{Op: x.Op, X: left, Y: right}}, nil
}

// equal returns the equality of two expressions of a type which is not primitive.
func (f *flattener) equal(sc scope, x, y ir.Expr) (ir.Expr, error) {
	left, err := f.flatten(sc, x)
	if err != nil {
		return nil, err
	}
	right, err := f.flatten(sc, y)
	if err != nil {
		return nil, err
	}
	if len(left) != len(right) {
		return nil, fmterr.Internalf("cannot compare %s and %s: different number of leaves", x, y)
	}
	return f.l.equalLeaves(x.Type(), left, right)
}

// equalLeaves returns the equality of two flattened values of a type.
//
// Two values of a custom type are equal if they have the same tag and the
// fields of their constructor are equal, recursively. Slots not used by the
// constructor are ignored at every level. Arrays are compared leaf by leaf
// which requires the layout of their elements to be canonical.
func (l *Layouter) equalLeaves(tp ir.Type, left, right []ir.Expr) (ir.Expr, error) {
	switch tpT := tp.(type) {
	case *ir.CustomType:
		return l.equalCustom(tpT, left, right)
	case *ir.ArrayType:
		canonical, err := l.Canonical(tpT.Elem)
		if err != nil {
			return nil, err
		}
		if !canonical {
			return nil, errors.Errorf("cannot compare arrays of %s: elements have unused slots", tpT.Elem)
		}
	}
	eqs := make([]ir.Expr, len(left))
	for i := range left {
		eqs[i] = &ir.BinaryExpr{Op: ir.Eq, X: left[i], Y: right[i]}
	}
	return and(eqs...), nil
}

func (l *Layouter) equalCustom(tp *ir.CustomType, left, right []ir.Expr) (ir.Expr, error) {
	lay, err := l.Layout(tp)
	if err != nil {
		return nil, err
	}
	conds := []ir.Expr{&ir.BinaryExpr{Op: ir.Eq, X: left[TagPosition], Y: right[TagPosition]}}
	for _, ctor := range tp.Constructors {
		fieldEqs := make([]ir.Expr, len(ctor.Fields))
		for field, fieldType := range ctor.Fields {
			if fieldEqs[field], err = l.equalLeaves(fieldType, lay.Field(ctor, field, left), lay.Field(ctor, field, right)); err != nil {
				return nil, err
			}
		}
		ctorEq := and(fieldEqs...)
		if isTrue(ctorEq) {
			continue
		}
		notCtor := &ir.BinaryExpr{Op: ir.Neq, X: left[TagPosition], Y: ir.IntLiteral(int64(ctor.Ordinal))}
		conds = append(conds, or(notCtor, ctorEq))
	}
	return and(conds...), nil
}

func isTrue(x ir.Expr) bool {
	lit, ok := x.(*ir.BoolLit)
	return ok && lit.Val
}

// and returns the conjunction of expressions, ignoring literal true expressions.
func and(xs ...ir.Expr) ir.Expr {
	var res ir.Expr
	for _, x := range xs {
		if isTrue(x) {
			continue
		}
		if res == nil {
			res = x
			continue
		}
		res = &ir.BinaryExpr{Op: ir.And, X: res, Y: x}
	}
	if res == nil {
		return ir.BoolLiteral(true)
	}
	return res
}

func or(x, y ir.Expr) ir.Expr {
	return &ir.BinaryExpr{Op: ir.Or, X: x, Y: y}
}
