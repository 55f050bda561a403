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

package instantiate

import (
	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/eval"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

// ExpandSums returns a rewriter replacing every sum by the explicit fold
// of its body over the points of its domain.
// The arguments of the selector invocations of a sum must be constant.
// Sums over custom accumulators must have been split before the expansion.
func (inst *Instantiator) ExpandSums() *rewrite.Rules {
	return rewrite.Lift(rewrite.NewExprs(inst.expandSum))
}

func (inst *Instantiator) expandSum(rw *rewrite.Exprs, x ir.Expr) (ir.Expr, bool, error) {
	sum, ok := x.(*ir.SumExpr)
	if !ok {
		return nil, false, nil
	}
	var points []map[string]ir.Expr
	for point, err := range inst.ev.Points(eval.NewEnv(), sum.Invocation) {
		if err != nil {
			if fmterr.IsHost(err) || fmterr.IsInternal(err) {
				return nil, false, err
			}
			return nil, false, fmterr.Internalf("domain of %s is not constant: %v", sum, err)
		}
		if inst.maxDomainSize > 0 && len(points) >= inst.maxDomainSize {
			return nil, false, errors.Errorf("%s: domain has more than %d points", sum, inst.maxDomainSize)
		}
		subst := make(map[string]ir.Expr)
		for name, val := range point.ParVars() {
			subst[name] = ir.Literal(val)
		}
		points = append(points, subst)
	}
	var res ir.Expr
	var err error
	switch opT := sum.Op.(type) {
	case *ir.BuiltinSum:
		res, err = expandBuiltin(opT, sum.Body, points)
	case *ir.CustomSum:
		if !ir.IsPrimitive(opT.Acc.Typ) {
			return nil, false, fmterr.Internalf("accumulator %s of %s has a custom type", opT.Acc.Name, sum)
		}
		res, err = expandCustom([]*ir.VarExpr{opT.Acc}, []ir.Expr{opT.Start}, []ir.Expr{opT.Body}, 0, points)
	case *ir.InlinedCustomSum:
		res, err = expandCustom(opT.Accs, opT.Starts, opT.Bodies, opT.Leaf, points)
	default:
		err = fmterr.Internalf("sum operation %T not supported", sum.Op)
	}
	if err != nil {
		return nil, false, err
	}
	// Sums nested in the body can now be expanded.
	res, err = rw.Rewrite(res)
	return res, true, err
}

func expandBuiltin(op *ir.BuiltinSum, body ir.Expr, points []map[string]ir.Expr) (ir.Expr, error) {
	if len(points) == 0 {
		return op.Identity(), nil
	}
	var res ir.Expr
	for _, point := range points {
		term, err := rewrite.SubstParVars(point).Rewrite(body)
		if err != nil {
			return nil, err
		}
		if res == nil {
			res = term
			continue
		}
		res = &ir.BinaryExpr{Op: op.Op, X: res, Y: term}
	}
	return res, nil
}

func expandCustom(accs []*ir.VarExpr, starts, bodies []ir.Expr, leaf int, points []map[string]ir.Expr) (ir.Expr, error) {
	current := append([]ir.Expr{}, starts...)
	for _, point := range points {
		vars := make(map[string]ir.Expr, len(accs))
		for i, acc := range accs {
			vars[acc.Name] = current[i]
		}
		next := make([]ir.Expr, len(bodies))
		for i, body := range bodies {
			withPoint, err := rewrite.SubstParVars(point).Rewrite(body)
			if err != nil {
				return nil, err
			}
			if next[i], err = rewrite.SubstVars(vars).Rewrite(withPoint); err != nil {
				return nil, err
			}
		}
		current = next
	}
	return current[leaf], nil
}
