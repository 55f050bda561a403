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

// Package irhelper provides terse constructors for IR nodes.
package irhelper

import (
	"math/big"

	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// Int returns an integer literal.
func Int(x int64) *ir.IntLit {
	return ir.IntLiteral(x)
}

// BigInt returns an integer literal from a big integer.
func BigInt(x *big.Int) *ir.IntLit {
	return &ir.IntLit{Val: x}
}

// Bool returns a boolean literal.
func Bool(x bool) *ir.BoolLit {
	return ir.BoolLiteral(x)
}

// True returns the true literal.
func True() *ir.BoolLit { return Bool(true) }

// False returns the false literal.
func False() *ir.BoolLit { return Bool(false) }

// ConstArray returns an array literal where every element is init.
func ConstArray(init ir.Expr) *ir.ArrayLit {
	return &ir.ArrayLit{Elem: init.Type(), Init: init}
}

// Var returns a reference to a local variable.
func Var(name string, tp ir.Type) *ir.VarExpr {
	return &ir.VarExpr{Name: name, Typ: tp}
}

// FreeVar returns a reference to a free variable.
func FreeVar(name string, tp ir.Type) *ir.FreeVarExpr {
	return &ir.FreeVarExpr{Name: name, Typ: tp}
}

// ParVar returns a reference to a parameter.
func ParVar(name string, tp ir.Type) *ir.ParVarExpr {
	return &ir.ParVarExpr{Name: name, Typ: tp}
}

// Binary returns a binary expression.
func Binary(op ir.BinaryOp, x, y ir.Expr) *ir.BinaryExpr {
	return &ir.BinaryExpr{Op: op, X: x, Y: y}
}

// Add returns x + y.
func Add(x, y ir.Expr) *ir.BinaryExpr { return Binary(ir.Add, x, y) }

// Sub returns x - y.
func Sub(x, y ir.Expr) *ir.BinaryExpr { return Binary(ir.Sub, x, y) }

// Mul returns x * y.
func Mul(x, y ir.Expr) *ir.BinaryExpr { return Binary(ir.Mul, x, y) }

// Eq returns x == y.
func Eq(x, y ir.Expr) *ir.BinaryExpr { return Binary(ir.Eq, x, y) }

// Gt returns x > y.
func Gt(x, y ir.Expr) *ir.BinaryExpr { return Binary(ir.Gt, x, y) }

// Lt returns x < y.
func Lt(x, y ir.Expr) *ir.BinaryExpr { return Binary(ir.Lt, x, y) }

// And returns the conjunction of xs. It returns true if xs is empty.
func And(xs ...ir.Expr) ir.Expr {
	if len(xs) == 0 {
		return True()
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		acc = Binary(ir.And, acc, x)
	}
	return acc
}

// Not returns the negation of x.
func Not(x ir.Expr) *ir.UnaryExpr {
	return &ir.UnaryExpr{Op: ir.Not, X: x}
}

// Cond returns the ternary conditional.
func Cond(c, t, f ir.Expr) *ir.CondExpr {
	return &ir.CondExpr{Cond: c, Then: t, Else: f}
}

// Select returns array[index].
func Select(array, index ir.Expr) *ir.SelectExpr {
	return &ir.SelectExpr{Array: array, Index: index}
}

// Store returns array[index := val].
func Store(array, index, val ir.Expr) *ir.StoreExpr {
	return &ir.StoreExpr{Array: array, Index: index, Value: val}
}

// Ctor returns a constructor application.
func Ctor(ctor *ir.Constructor, args ...ir.Expr) *ir.ConstructorAppExpr {
	return &ir.ConstructorAppExpr{Ctor: ctor, Args: args}
}

// App returns an operation application without parameters.
func App(op *ir.Operation, args ...ir.Expr) *ir.AppExpr {
	return &ir.AppExpr{Op: op, Args: args}
}

// Wildcard returns a wildcard pattern.
func Wildcard(name string, tp ir.Type) *ir.WildcardPattern {
	return &ir.WildcardPattern{Name: name, Typ: tp}
}

// Blank returns a wildcard pattern binding nothing.
func Blank(tp ir.Type) *ir.WildcardPattern {
	return Wildcard(ir.Blank, tp)
}

// PValue returns a constructor pattern.
func PValue(ctor *ir.Constructor, subs ...ir.Pattern) *ir.ValuePattern {
	return &ir.ValuePattern{Ctor: ctor, Subs: subs}
}

// Branch returns a match branch.
func Branch(result ir.Expr, patterns ...ir.Pattern) *ir.MatchBranch {
	return &ir.MatchBranch{Patterns: patterns, Result: result}
}

// Match returns a match expression on a single scrutinee.
func Match(scrutinee ir.Expr, branches ...*ir.MatchBranch) *ir.MatchExpr {
	return &ir.MatchExpr{
		Scrutinees: []ir.Expr{scrutinee},
		Branches:   branches,
		Typ:        branches[0].Result.Type(),
	}
}

// Constructor returns a constructor declaration.
func Constructor(name string, fields ...ir.Type) *ir.Constructor {
	return &ir.Constructor{Name: name, Fields: fields}
}

// Predicate returns a predicate declaration.
func Predicate(name string, params []ir.Type, args ...ir.Type) *ir.Predicate {
	return &ir.Predicate{Name: name, ParamTypes: params, ArgTypes: args}
}

// Apply returns the application of a predicate.
func Apply(pred *ir.Predicate, params []ir.Expr, args ...ir.Expr) *ir.PredicateProp {
	return &ir.PredicateProp{Pred: pred, Params: params, Args: args}
}

// Prop returns a proposition from a boolean expression.
func Prop(x ir.Expr) *ir.ExprProp {
	return &ir.ExprProp{X: x}
}

// Clause returns a clause whose free variables are collected from its propositions.
func Clause(conclusion *ir.PredicateProp, premises ...ir.Proposition) *ir.Clause {
	return ir.NewClause(premises, conclusion)
}

// Selector returns a selector function declaration.
func Selector(name string, params []ir.Type, results ...ir.Type) *ir.SelectorFunction {
	return &ir.SelectorFunction{Name: name, ParamTypes: params, ReturnTypes: results}
}

// Invoke returns a selector invocation.
func Invoke(fn *ir.SelectorFunction, binds []*ir.ParVarExpr, args ...ir.Expr) *ir.SelectorInvocation {
	return &ir.SelectorInvocation{Func: fn, Args: args, Binds: binds}
}

// Compound returns a compound invocation.
func Compound(invs ...*ir.SelectorInvocation) *ir.CompoundInvocation {
	return &ir.CompoundInvocation{Invocations: invs}
}

// Rule returns a definition rule.
func Rule(name string, inv *ir.CompoundInvocation, clauses ...*ir.Clause) *ir.Rule {
	if inv == nil {
		inv = ir.Unit()
	}
	return &ir.Rule{Name: name, Invocation: inv, Clauses: clauses}
}

// Sum returns a sum folding body with a builtin operator.
func Sum(inv *ir.CompoundInvocation, op ir.BinaryOp, body ir.Expr) *ir.SumExpr {
	return &ir.SumExpr{Invocation: inv, Op: &ir.BuiltinSum{Op: op}, Body: body}
}

// CustomSum returns a sum with an accumulator.
func CustomSum(inv *ir.CompoundInvocation, acc *ir.VarExpr, start, body ir.Expr) *ir.SumExpr {
	return &ir.SumExpr{Invocation: inv, Op: &ir.CustomSum{Acc: acc, Start: start, Body: body}}
}

// Operation returns an operation declaration without parameters.
func Operation(name string, result ir.Type, body ir.Expr, args ...*ir.VarExpr) *ir.Operation {
	return &ir.Operation{Name: name, Args: args, Result: result, Body: body}
}
