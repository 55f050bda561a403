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
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

func (f *flattener) flattenInvocation(sc scope, inv *ir.CompoundInvocation) (*ir.CompoundInvocation, error) {
	if inv.IsUnit() {
		return inv, nil
	}
	invs := make([]*ir.SelectorInvocation, len(inv.Invocations))
	for i, sel := range inv.Invocations {
		args := make([]ir.Expr, len(sel.Args))
		for j, arg := range sel.Args {
			var err error
			if args[j], err = f.one(sc, arg); err != nil {
				return nil, err
			}
		}
		invs[i] = &ir.SelectorInvocation{Func: sel.Func, Args: args, Binds: sel.Binds}
	}
	return &ir.CompoundInvocation{Invocations: invs}, nil
}

// flattenSum flattens a sum.
// A sum over a custom accumulator is split into one sum for every leaf of the accumulator.
// The sums fold all the leaves jointly: each one of them returns a different leaf.
func (f *flattener) flattenSum(sc scope, x *ir.SumExpr) ([]ir.Expr, error) {
	inv, err := f.flattenInvocation(sc, x.Invocation)
	if err != nil {
		return nil, err
	}
	switch opT := x.Op.(type) {
	case *ir.BuiltinSum:
		body, err := f.one(sc, x.Body)
		if err != nil {
			return nil, err
		}
		return []ir.Expr{&ir.SumExpr{Invocation: inv, Op: opT, Body: body}}, nil
	case *ir.CustomSum:
		leafTypes, err := f.l.Leaves(opT.Acc.Typ)
		if err != nil {
			return nil, err
		}
		accs := []*ir.VarExpr{opT.Acc}
		bodyScope := sc
		if !ir.IsPrimitive(opT.Acc.Typ) {
			accs = make([]*ir.VarExpr, len(leafTypes))
			accLeaves := make([]ir.Expr, len(leafTypes))
			for i, tp := range leafTypes {
				accs[i] = &ir.VarExpr{Name: leafName(opT.Acc.Name, i), Typ: tp}
				accLeaves[i] = accs[i]
			}
			bodyScope = sc.with(opT.Acc.Name, accLeaves)
		}
		starts, err := f.flatten(sc, opT.Start)
		if err != nil {
			return nil, err
		}
		bodies, err := f.flatten(bodyScope, opT.Body)
		if err != nil {
			return nil, err
		}
		if len(starts) != len(accs) || len(bodies) != len(accs) {
			return nil, fmterr.Internalf("%s: accumulator, start, and body have a different number of leaves", x)
		}
		if len(accs) == 1 && accs[0] == opT.Acc {
			return []ir.Expr{&ir.SumExpr{
				Invocation: inv,
				Op:         &ir.CustomSum{Acc: opT.Acc, Start: starts[0], Body: bodies[0]},
			}}, nil
		}
		leaves := make([]ir.Expr, len(accs))
		for leaf := range accs {
			leaves[leaf] = &ir.SumExpr{
				Invocation: inv,
				Op:         &ir.InlinedCustomSum{Accs: accs, Starts: starts, Bodies: bodies, Leaf: leaf},
			}
		}
		return leaves, nil
	case *ir.InlinedCustomSum:
		starts := make([]ir.Expr, len(opT.Starts))
		for i, start := range opT.Starts {
			if starts[i], err = f.one(sc, start); err != nil {
				return nil, err
			}
		}
		bodies := make([]ir.Expr, len(opT.Bodies))
		for i, body := range opT.Bodies {
			if bodies[i], err = f.one(sc, body); err != nil {
				return nil, err
			}
		}
		return []ir.Expr{&ir.SumExpr{
			Invocation: inv,
			Op:         &ir.InlinedCustomSum{Accs: opT.Accs, Starts: starts, Bodies: bodies, Leaf: opT.Leaf},
		}}, nil
	}
	return nil, fmterr.Internalf("sum operation %T not supported", x.Op)
}
