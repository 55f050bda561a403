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

package rewrite

import (
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// SubstFreeVars returns a rewriter replacing free variables by expressions.
func SubstFreeVars(m map[string]ir.Expr) *Exprs {
	return NewExprs(func(_ *Exprs, x ir.Expr) (ir.Expr, bool, error) {
		v, ok := x.(*ir.FreeVarExpr)
		if !ok {
			return nil, false, nil
		}
		if to, ok := m[v.Name]; ok {
			return to, true, nil
		}
		return x, true, nil
	})
}

// SubstParVars returns a rewriter replacing parameters by expressions.
// Binders of nested sums are left untouched.
func SubstParVars(m map[string]ir.Expr) *Exprs {
	return NewExprs(func(rw *Exprs, x ir.Expr) (ir.Expr, bool, error) {
		switch xT := x.(type) {
		case *ir.ParVarExpr:
			if to, ok := m[xT.Name]; ok {
				return to, true, nil
			}
			return x, true, nil
		case *ir.SumExpr:
			return substSum(rw, xT, m)
		}
		return nil, false, nil
	})
}

// substSum substitutes parameters in a sum, except the ones the sum binds itself.
func substSum(rw *Exprs, x *ir.SumExpr, m map[string]ir.Expr) (ir.Expr, bool, error) {
	shadowed := false
	for _, bind := range x.Invocation.Binds() {
		if _, ok := m[bind.Name]; ok {
			shadowed = true
			break
		}
	}
	if !shadowed {
		return nil, false, nil
	}
	inner := make(map[string]ir.Expr, len(m))
	for k, v := range m {
		inner[k] = v
	}
	// Arguments of an invocation can reference the parameters of the
	// previous invocations only, so they are substituted one by one.
	invs := make([]*ir.SelectorInvocation, len(x.Invocation.Invocations))
	for i, inv := range x.Invocation.Invocations {
		args, _, err := SubstParVars(inner).RewriteAll(inv.Args)
		if err != nil {
			return nil, false, err
		}
		invs[i] = &ir.SelectorInvocation{Func: inv.Func, Args: args, Binds: inv.Binds}
		for _, bind := range inv.Binds {
			delete(inner, bind.Name)
		}
	}
	sub := SubstParVars(inner)
	op, err := sub.sumOperation(x.Op)
	if err != nil {
		return nil, false, err
	}
	res, err := sub.Rewrite(x.Body)
	if err != nil {
		return nil, false, err
	}
	return &ir.SumExpr{Invocation: &ir.CompoundInvocation{Invocations: invs}, Op: op, Body: res}, true, nil
}

// SubstVars returns a rewriter replacing local variables by expressions.
func SubstVars(m map[string]ir.Expr) *Exprs {
	return NewExprs(func(_ *Exprs, x ir.Expr) (ir.Expr, bool, error) {
		v, ok := x.(*ir.VarExpr)
		if !ok {
			return nil, false, nil
		}
		if to, ok := m[v.Name]; ok {
			return to, true, nil
		}
		return x, true, nil
	})
}

// RenameFreeVars returns a rewriter renaming free variables.
func RenameFreeVars(rename func(string) string) *Exprs {
	return NewExprs(func(_ *Exprs, x ir.Expr) (ir.Expr, bool, error) {
		v, ok := x.(*ir.FreeVarExpr)
		if !ok {
			return nil, false, nil
		}
		name := rename(v.Name)
		if name == v.Name {
			return x, true, nil
		}
		return &ir.FreeVarExpr{Name: name, Typ: v.Typ}, true, nil
	})
}
