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

// Package constfold simplifies expressions by evaluating their constant subtrees.
//
// Folding is syntactic: subtrees built only from literals are replaced by
// the literal of their value and a fixed set of algebraic identities is
// applied on partially constant expressions. Folding is applied bottom-up
// and the identities are applied again on the result of every local rewrite.
//
// Operation applications must have been eliminated before folding.
// Constructor applications, match expressions, and sums are only accepted
// by folders created with WithCustomTypes, that is folders running before
// the layout pass: their subexpressions are folded and a match over literals
// is evaluated, but the other nodes are kept.
package constfold

import (
	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/eval"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

type (
	// Folder folds constant expressions.
	Folder struct {
		ev          *eval.Evaluator
		exprs       *rewrite.Exprs
		customTypes bool
	}

	// Option configures a folder.
	Option func(*Folder)
)

// WithCustomTypes accepts expressions of custom types and sums, that is folding before layout.
func WithCustomTypes() Option {
	return func(f *Folder) {
		f.customTypes = true
	}
}

// New returns a folder evaluating constants with a given evaluator.
func New(ev *eval.Evaluator, opts ...Option) *Folder {
	if ev == nil {
		ev = eval.New()
	}
	f := &Folder{ev: ev}
	for _, opt := range opts {
		opt(f)
	}
	f.exprs = rewrite.NewExprs(f.fold)
	return f
}

// Exprs returns the folder as an expression rewriter.
func (f *Folder) Exprs() *rewrite.Exprs {
	return f.exprs
}

// Rules returns the folder lifted to rules.
func (f *Folder) Rules() *rewrite.Rules {
	return rewrite.Lift(f.exprs)
}

// Fold an expression.
func (f *Folder) Fold(x ir.Expr) (ir.Expr, error) {
	return f.exprs.Rewrite(x)
}

func (f *Folder) fold(rw *rewrite.Exprs, x ir.Expr) (ir.Expr, bool, error) {
	switch xT := x.(type) {
	case *ir.AppExpr:
		return nil, false, fmterr.Internalf("cannot fold %s: %T should have been eliminated", x, x)
	case *ir.ConstructorAppExpr, *ir.SumExpr:
		if !f.customTypes {
			return nil, false, fmterr.Internalf("cannot fold %s: %T should have been eliminated", x, x)
		}
		y, err := rw.Structural(x)
		return y, true, err
	case *ir.MatchExpr:
		if !f.customTypes {
			return nil, false, fmterr.Internalf("cannot fold %s: %T should have been eliminated", x, x)
		}
		y, err := rw.Structural(x)
		if err != nil {
			return nil, false, err
		}
		return f.foldMatch(y.(*ir.MatchExpr)), true, nil
	case *ir.IntLit, *ir.BoolLit, *ir.VarExpr, *ir.ParVarExpr, *ir.FreeVarExpr:
		return x, true, nil
	case *ir.ConstExpr:
		val, err := rw.Rewrite(xT.Value)
		if err != nil {
			return nil, false, err
		}
		if ir.IsLiteral(val) {
			return val, true, nil
		}
		if val == xT.Value {
			return x, true, nil
		}
		return &ir.ConstExpr{Name: xT.Name, Value: val}, true, nil
	}
	y, err := rw.Structural(x)
	if err != nil {
		return nil, false, err
	}
	for {
		simpler, err := f.simplify(y)
		if err != nil {
			return nil, false, err
		}
		if simpler == y {
			return y, true, nil
		}
		y = simpler
	}
}

// foldMatch evaluates a match expression whose scrutinees are literals.
// The expression is kept when the selected branch cannot be evaluated,
// for example when it references a free variable.
func (f *Folder) foldMatch(x *ir.MatchExpr) ir.Expr {
	for _, scrutinee := range x.Scrutinees {
		if !isConstant(scrutinee) {
			return x
		}
	}
	val, err := f.ev.Eval(eval.NewEnv(), x)
	if err != nil {
		return x
	}
	return ir.Literal(val)
}

// simplify applies one folding rule on an expression whose children have been folded.
// It returns the expression unchanged if no rule applies.
func (f *Folder) simplify(x ir.Expr) (ir.Expr, error) {
	if ir.IsLiteral(x) {
		return x, nil
	}
	if allLiterals(x) {
		val, err := f.ev.Eval(eval.NewEnv(), x)
		if errors.Is(err, eval.ErrDivisionByZero) {
			return x, nil
		}
		if err != nil {
			return nil, err
		}
		return ir.Literal(val), nil
	}
	switch xT := x.(type) {
	case *ir.BinaryExpr:
		return simplifyBinary(xT), nil
	case *ir.UnaryExpr:
		return simplifyUnary(xT), nil
	case *ir.CondExpr:
		return simplifyCond(xT), nil
	}
	return x, nil
}

// isConstant returns true for literals and constructor applications of literals.
func isConstant(x ir.Expr) bool {
	app, ok := x.(*ir.ConstructorAppExpr)
	if !ok {
		return ir.IsLiteral(x)
	}
	for _, arg := range app.Args {
		if !isConstant(arg) {
			return false
		}
	}
	return true
}

func allLiterals(x ir.Expr) bool {
	kids := ir.Children(x)
	if len(kids) == 0 {
		return false
	}
	for _, kid := range kids {
		if !ir.IsLiteral(kid) {
			return false
		}
	}
	return true
}

func isInt(x ir.Expr, val int64) bool {
	lit, ok := x.(*ir.IntLit)
	return ok && lit.Val.IsInt64() && lit.Val.Int64() == val
}

func isBool(x ir.Expr, val bool) bool {
	lit, ok := x.(*ir.BoolLit)
	return ok && lit.Val == val
}

func simplifyBinary(x *ir.BinaryExpr) ir.Expr {
	switch x.Op {
	case ir.Add:
		if isInt(x.Y, 0) {
			return x.X
		}
		if isInt(x.X, 0) {
			return x.Y
		}
	case ir.Sub:
		if isInt(x.Y, 0) {
			return x.X
		}
	case ir.Mul:
		if isInt(x.X, 0) || isInt(x.Y, 0) {
			return ir.IntLiteral(0)
		}
		if isInt(x.Y, 1) {
			return x.X
		}
		if isInt(x.X, 1) {
			return x.Y
		}
	case ir.Div:
		if isInt(x.Y, 1) {
			return x.X
		}
	case ir.Mod:
		if isInt(x.Y, 1) {
			return ir.IntLiteral(0)
		}
	case ir.And:
		if isBool(x.X, false) || isBool(x.Y, false) {
			return ir.BoolLiteral(false)
		}
		if isBool(x.X, true) {
			return x.Y
		}
		if isBool(x.Y, true) {
			return x.X
		}
	case ir.Or:
		if isBool(x.X, true) || isBool(x.Y, true) {
			return ir.BoolLiteral(true)
		}
		if isBool(x.X, false) {
			return x.Y
		}
		if isBool(x.Y, false) {
			return x.X
		}
	}
	return x
}

// simplifyUnary removes double negations.
// Bitwise negations are kept: ~~x is x modulo 2^width.
func simplifyUnary(x *ir.UnaryExpr) ir.Expr {
	if x.Op != ir.Not && x.Op != ir.Neg {
		return x
	}
	if inner, ok := x.X.(*ir.UnaryExpr); ok && inner.Op == x.Op {
		return inner.X
	}
	return x
}

func simplifyCond(x *ir.CondExpr) ir.Expr {
	switch {
	case isBool(x.Cond, true):
		return x.Then
	case isBool(x.Cond, false):
		return x.Else
	case ir.IsLiteral(x.Then) && ir.Equal(x.Then, x.Else):
		return x.Then
	case isBool(x.Then, true) && isBool(x.Else, false):
		return x.Cond
	case isBool(x.Then, false) && isBool(x.Else, true):
		if not, ok := x.Cond.(*ir.UnaryExpr); ok && not.Op == ir.Not {
			return not.X
		}
		return &ir.UnaryExpr{Op: ir.Not, X: x.Cond}
	}
	return x
}
