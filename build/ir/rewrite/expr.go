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

// Package rewrite provides structural recursion skeletons to write passes
// transforming the IR.
//
// A pass only implements the cases it changes. Every other node is rebuilt
// from its recursively rewritten children, or returned unchanged if none of
// its children changed. Passes are lifted from expressions to propositions,
// from propositions to clauses, and from clauses to rules, so that a pass
// written for expressions can be applied to a whole rule.
package rewrite

import (
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

type (
	// ExprFunc rewrites an expression.
	// It returns false to fall back to the structural recursion.
	ExprFunc func(rw *Exprs, x ir.Expr) (ir.Expr, bool, error)

	// PatternFunc rewrites a pattern.
	// It returns false to fall back to the structural recursion.
	PatternFunc func(rw *Exprs, p ir.Pattern) (ir.Pattern, bool, error)

	// Exprs rewrites expressions.
	Exprs struct {
		f       ExprFunc
		pattern PatternFunc
	}
)

// NewExprs returns a new expression rewriter.
// f can be nil, in which case every expression is rebuilt structurally.
func NewExprs(f ExprFunc) *Exprs {
	return &Exprs{f: f}
}

// WithPatterns returns a rewriter also rewriting the patterns of match expressions.
func (rw *Exprs) WithPatterns(f PatternFunc) *Exprs {
	return &Exprs{f: rw.f, pattern: f}
}

// Rewrite an expression.
func (rw *Exprs) Rewrite(x ir.Expr) (ir.Expr, error) {
	if x == nil {
		return nil, nil
	}
	if rw.f != nil {
		res, done, err := rw.f(rw, x)
		if err != nil {
			return nil, err
		}
		if done {
			return res, nil
		}
	}
	return rw.Structural(x)
}

// RewriteAll rewrites a list of expressions.
// It returns the input slice, and false, if no expression changed.
func (rw *Exprs) RewriteAll(xs []ir.Expr) ([]ir.Expr, bool, error) {
	var res []ir.Expr
	for i, x := range xs {
		y, err := rw.Rewrite(x)
		if err != nil {
			return nil, false, err
		}
		if y != x && res == nil {
			res = make([]ir.Expr, len(xs))
			copy(res, xs[:i])
		}
		if res != nil {
			res[i] = y
		}
	}
	if res == nil {
		return xs, false, nil
	}
	return res, true, nil
}

func (rw *Exprs) rewriteVar(v *ir.VarExpr) (*ir.VarExpr, error) {
	res, err := rw.Rewrite(v)
	if err != nil {
		return nil, err
	}
	resT, ok := res.(*ir.VarExpr)
	if !ok {
		return nil, fmterr.Internalf("binder %s rewritten into %T: not a local variable", v, res)
	}
	return resT, nil
}

func (rw *Exprs) rewriteParVar(v *ir.ParVarExpr) (*ir.ParVarExpr, error) {
	res, err := rw.Rewrite(v)
	if err != nil {
		return nil, err
	}
	resT, ok := res.(*ir.ParVarExpr)
	if !ok {
		return nil, fmterr.Internalf("binder %s rewritten into %T: not a parameter", v, res)
	}
	return resT, nil
}

// Invocation rewrites the arguments and the binders of a compound invocation.
func (rw *Exprs) Invocation(c *ir.CompoundInvocation) (*ir.CompoundInvocation, error) {
	if c.IsUnit() {
		return c, nil
	}
	changed := false
	invs := make([]*ir.SelectorInvocation, len(c.Invocations))
	for i, inv := range c.Invocations {
		args, argsChanged, err := rw.RewriteAll(inv.Args)
		if err != nil {
			return nil, err
		}
		binds := make([]*ir.ParVarExpr, len(inv.Binds))
		bindsChanged := false
		for j, bind := range inv.Binds {
			if binds[j], err = rw.rewriteParVar(bind); err != nil {
				return nil, err
			}
			bindsChanged = bindsChanged || binds[j] != bind
		}
		if !argsChanged && !bindsChanged {
			invs[i] = inv
			continue
		}
		changed = true
		invs[i] = &ir.SelectorInvocation{Func: inv.Func, Args: args, Binds: binds}
	}
	if !changed {
		return c, nil
	}
	return &ir.CompoundInvocation{Invocations: invs}, nil
}

// Pattern rewrites a pattern.
func (rw *Exprs) Pattern(p ir.Pattern) (ir.Pattern, error) {
	if rw.pattern != nil {
		res, done, err := rw.pattern(rw, p)
		if err != nil {
			return nil, err
		}
		if done {
			return res, nil
		}
	}
	vp, ok := p.(*ir.ValuePattern)
	if !ok {
		return p, nil
	}
	var subs []ir.Pattern
	for i, sub := range vp.Subs {
		res, err := rw.Pattern(sub)
		if err != nil {
			return nil, err
		}
		if res != sub && subs == nil {
			subs = append([]ir.Pattern{}, vp.Subs...)
		}
		if subs != nil {
			subs[i] = res
		}
	}
	if subs == nil {
		return p, nil
	}
	return &ir.ValuePattern{Ctor: vp.Ctor, Subs: subs}, nil
}

func (rw *Exprs) sumOperation(op ir.SumOperation) (ir.SumOperation, error) {
	switch opT := op.(type) {
	case *ir.BuiltinSum:
		return op, nil
	case *ir.CustomSum:
		acc, err := rw.rewriteVar(opT.Acc)
		if err != nil {
			return nil, err
		}
		exprs, changed, err := rw.RewriteAll([]ir.Expr{opT.Start, opT.Body})
		if err != nil {
			return nil, err
		}
		if !changed && acc == opT.Acc {
			return op, nil
		}
		return &ir.CustomSum{Acc: acc, Start: exprs[0], Body: exprs[1]}, nil
	case *ir.InlinedCustomSum:
		changed := false
		accs := make([]*ir.VarExpr, len(opT.Accs))
		for i, acc := range opT.Accs {
			var err error
			if accs[i], err = rw.rewriteVar(acc); err != nil {
				return nil, err
			}
			changed = changed || accs[i] != acc
		}
		starts, startsChanged, err := rw.RewriteAll(opT.Starts)
		if err != nil {
			return nil, err
		}
		bodies, bodiesChanged, err := rw.RewriteAll(opT.Bodies)
		if err != nil {
			return nil, err
		}
		if !changed && !startsChanged && !bodiesChanged {
			return op, nil
		}
		return &ir.InlinedCustomSum{Accs: accs, Starts: starts, Bodies: bodies, Leaf: opT.Leaf}, nil
	}
	return nil, fmterr.Internalf("sum operation %T not supported", op)
}

// Structural rebuilds an expression from its rewritten children.
// The expression is returned unchanged if none of its children changed.
func (rw *Exprs) Structural(x ir.Expr) (ir.Expr, error) {
	switch xT := x.(type) {
	case *ir.IntLit, *ir.BoolLit, *ir.VarExpr, *ir.FreeVarExpr, *ir.ParVarExpr:
		return x, nil
	case *ir.ArrayLit:
		init, err := rw.Rewrite(xT.Init)
		if err != nil || init == xT.Init {
			return x, err
		}
		return &ir.ArrayLit{Elem: init.Type(), Init: init}, nil
	case *ir.BinaryExpr:
		kids, changed, err := rw.RewriteAll([]ir.Expr{xT.X, xT.Y})
		if err != nil || !changed {
			return x, err
		}
		return &ir.BinaryExpr{Op: xT.Op, X: kids[0], Y: kids[1]}, nil
	case *ir.UnaryExpr:
		y, err := rw.Rewrite(xT.X)
		if err != nil || y == xT.X {
			return x, err
		}
		return &ir.UnaryExpr{Op: xT.Op, X: y}, nil
	case *ir.SelectExpr:
		kids, changed, err := rw.RewriteAll([]ir.Expr{xT.Array, xT.Index})
		if err != nil || !changed {
			return x, err
		}
		return &ir.SelectExpr{Array: kids[0], Index: kids[1]}, nil
	case *ir.StoreExpr:
		kids, changed, err := rw.RewriteAll([]ir.Expr{xT.Array, xT.Index, xT.Value})
		if err != nil || !changed {
			return x, err
		}
		return &ir.StoreExpr{Array: kids[0], Index: kids[1], Value: kids[2]}, nil
	case *ir.CondExpr:
		kids, changed, err := rw.RewriteAll([]ir.Expr{xT.Cond, xT.Then, xT.Else})
		if err != nil || !changed {
			return x, err
		}
		return &ir.CondExpr{Cond: kids[0], Then: kids[1], Else: kids[2]}, nil
	case *ir.AppExpr:
		params, paramsChanged, err := rw.RewriteAll(xT.Params)
		if err != nil {
			return nil, err
		}
		args, argsChanged, err := rw.RewriteAll(xT.Args)
		if err != nil || (!paramsChanged && !argsChanged) {
			return x, err
		}
		return &ir.AppExpr{Op: xT.Op, Params: params, Args: args}, nil
	case *ir.ConstructorAppExpr:
		args, changed, err := rw.RewriteAll(xT.Args)
		if err != nil || !changed {
			return x, err
		}
		return &ir.ConstructorAppExpr{Ctor: xT.Ctor, Args: args}, nil
	case *ir.MatchExpr:
		return rw.structuralMatch(xT)
	case *ir.ConstExpr:
		val, err := rw.Rewrite(xT.Value)
		if err != nil || val == xT.Value {
			return x, err
		}
		return &ir.ConstExpr{Name: xT.Name, Value: val}, nil
	case *ir.SumExpr:
		inv, err := rw.Invocation(xT.Invocation)
		if err != nil {
			return nil, err
		}
		op, err := rw.sumOperation(xT.Op)
		if err != nil {
			return nil, err
		}
		body, err := rw.Rewrite(xT.Body)
		if err != nil {
			return nil, err
		}
		if inv == xT.Invocation && op == xT.Op && body == xT.Body {
			return x, nil
		}
		return &ir.SumExpr{Invocation: inv, Op: op, Body: body}, nil
	}
	return nil, fmterr.Internalf("expression %T not supported", x)
}

func (rw *Exprs) structuralMatch(x *ir.MatchExpr) (ir.Expr, error) {
	scrutinees, changed, err := rw.RewriteAll(x.Scrutinees)
	if err != nil {
		return nil, err
	}
	branches := make([]*ir.MatchBranch, len(x.Branches))
	for i, branch := range x.Branches {
		branches[i] = branch
		patterns := make([]ir.Pattern, len(branch.Patterns))
		patternsChanged := false
		for j, p := range branch.Patterns {
			if patterns[j], err = rw.Pattern(p); err != nil {
				return nil, err
			}
			patternsChanged = patternsChanged || patterns[j] != p
		}
		result, err := rw.Rewrite(branch.Result)
		if err != nil {
			return nil, err
		}
		if !patternsChanged && result == branch.Result {
			continue
		}
		changed = true
		branches[i] = &ir.MatchBranch{Patterns: patterns, Result: result}
	}
	if !changed {
		return x, nil
	}
	return &ir.MatchExpr{Scrutinees: scrutinees, Branches: branches, Typ: x.Typ}, nil
}
