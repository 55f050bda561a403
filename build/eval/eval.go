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

// Package eval evaluates closed expressions to values.
//
// The evaluator is the reference semantics of the IR: constant folding
// uses it to compute the value of constant subtrees and tests use it
// to check that lowering passes preserve the value of expressions.
package eval

import (
	"iter"
	"math/big"

	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// ErrDivisionByZero is returned when the divisor of a division or a modulo is zero.
// The semantics of such an expression is left to the solver.
var ErrDivisionByZero = errors.New("division by zero")

type (
	// Domain invokes selector functions.
	Domain interface {
		Invoke(fn *ir.SelectorFunction, args []ir.Value) iter.Seq2[[]ir.Value, error]
	}

	// Evaluator evaluates expressions.
	Evaluator struct {
		bitwise Bitwise
		domain  Domain
	}

	// Option configures an evaluator.
	Option func(*Evaluator)
)

// WithBitwise sets the evaluator of bit-level operators.
func WithBitwise(b Bitwise) Option {
	return func(ev *Evaluator) {
		ev.bitwise = b
	}
}

// WithDomain sets the selector functions used to evaluate sums.
func WithDomain(d Domain) Option {
	return func(ev *Evaluator) {
		ev.domain = d
	}
}

// New returns a new evaluator.
// By default, bitwise operators are evaluated on 256-bit unsigned integers.
func New(opts ...Option) *Evaluator {
	ev := &Evaluator{bitwise: NewFixedWidth(DefaultBitwidth)}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Bitwise returns the evaluator of bit-level operators.
func (ev *Evaluator) Bitwise() Bitwise {
	return ev.bitwise
}

// Eval evaluates an expression given an environment.
func (ev *Evaluator) Eval(env *Env, x ir.Expr) (ir.Value, error) {
	switch xT := x.(type) {
	case *ir.IntLit:
		return &ir.IntValue{Val: xT.Val}, nil
	case *ir.BoolLit:
		return ir.BoolVal(xT.Val), nil
	case *ir.ArrayLit:
		init, err := ev.Eval(env, xT.Init)
		if err != nil {
			return nil, err
		}
		return ir.NewArrayValue(xT.Elem, init), nil
	case *ir.VarExpr, *ir.ParVarExpr, *ir.FreeVarExpr:
		val, ok := env.lookup(x)
		if !ok {
			return nil, errors.Errorf("variable %s is not bound", x)
		}
		return val, nil
	case *ir.ConstExpr:
		return ev.Eval(env, xT.Value)
	case *ir.BinaryExpr:
		return ev.evalBinary(env, xT)
	case *ir.UnaryExpr:
		val, err := ev.Eval(env, xT.X)
		if err != nil {
			return nil, err
		}
		return ev.Unary(xT.Op, val)
	case *ir.SelectExpr:
		return ev.evalSelect(env, xT)
	case *ir.StoreExpr:
		return ev.evalStore(env, xT)
	case *ir.CondExpr:
		cond, err := ev.evalBool(env, xT.Cond)
		if err != nil {
			return nil, err
		}
		if cond {
			return ev.Eval(env, xT.Then)
		}
		return ev.Eval(env, xT.Else)
	case *ir.AppExpr:
		return ev.evalApp(env, xT)
	case *ir.ConstructorAppExpr:
		fields, err := ev.evalAll(env, xT.Args)
		if err != nil {
			return nil, err
		}
		return &ir.CustomValue{Ctor: xT.Ctor, Fields: fields}, nil
	case *ir.MatchExpr:
		return ev.evalMatch(env, xT)
	case *ir.SumExpr:
		return ev.evalSum(env, xT)
	}
	return nil, fmterr.Internalf("cannot evaluate expression %T", x)
}

func (ev *Evaluator) evalAll(env *Env, xs []ir.Expr) ([]ir.Value, error) {
	vals := make([]ir.Value, len(xs))
	for i, x := range xs {
		var err error
		if vals[i], err = ev.Eval(env, x); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

func (ev *Evaluator) evalBool(env *Env, x ir.Expr) (bool, error) {
	val, err := ev.Eval(env, x)
	if err != nil {
		return false, err
	}
	b, ok := val.(*ir.BoolValue)
	if !ok {
		return false, fmterr.Internalf("%s evaluates to %T: boolean expected", x, val)
	}
	return b.Val, nil
}

func (ev *Evaluator) evalInt(env *Env, x ir.Expr) (*big.Int, error) {
	val, err := ev.Eval(env, x)
	if err != nil {
		return nil, err
	}
	i, ok := val.(*ir.IntValue)
	if !ok {
		return nil, fmterr.Internalf("%s evaluates to %T: integer expected", x, val)
	}
	return i.Val, nil
}

func (ev *Evaluator) evalBinary(env *Env, x *ir.BinaryExpr) (ir.Value, error) {
	if x.Op == ir.And || x.Op == ir.Or {
		left, err := ev.evalBool(env, x.X)
		if err != nil {
			return nil, err
		}
		if left == (x.Op == ir.Or) {
			return ir.BoolVal(left), nil
		}
		right, err := ev.evalBool(env, x.Y)
		if err != nil {
			return nil, err
		}
		return ir.BoolVal(right), nil
	}
	left, err := ev.Eval(env, x.X)
	if err != nil {
		return nil, err
	}
	right, err := ev.Eval(env, x.Y)
	if err != nil {
		return nil, err
	}
	return ev.Binary(x.Op, left, right)
}

// Binary applies a binary operator to two values.
// Division and modulo are Euclidean: the remainder is never negative.
func (ev *Evaluator) Binary(op ir.BinaryOp, x, y ir.Value) (ir.Value, error) {
	switch op {
	case ir.Eq:
		return ir.BoolVal(ir.ValueEqual(x, y)), nil
	case ir.Neq:
		return ir.BoolVal(!ir.ValueEqual(x, y)), nil
	}
	if op.IsLogical() {
		xB, xOk := x.(*ir.BoolValue)
		yB, yOk := y.(*ir.BoolValue)
		if !xOk || !yOk {
			return nil, fmterr.Internalf("operator %s not supported on %s and %s", op, x, y)
		}
		if op == ir.And {
			return ir.BoolVal(xB.Val && yB.Val), nil
		}
		return ir.BoolVal(xB.Val || yB.Val), nil
	}
	xI, xOk := x.(*ir.IntValue)
	yI, yOk := y.(*ir.IntValue)
	if !xOk || !yOk {
		return nil, fmterr.Internalf("operator %s not supported on %s and %s", op, x, y)
	}
	a, b := xI.Val, yI.Val
	switch op {
	case ir.Lt:
		return ir.BoolVal(a.Cmp(b) < 0), nil
	case ir.Le:
		return ir.BoolVal(a.Cmp(b) <= 0), nil
	case ir.Gt:
		return ir.BoolVal(a.Cmp(b) > 0), nil
	case ir.Ge:
		return ir.BoolVal(a.Cmp(b) >= 0), nil
	}
	var val *big.Int
	switch op {
	case ir.Add:
		val = new(big.Int).Add(a, b)
	case ir.Sub:
		val = new(big.Int).Sub(a, b)
	case ir.Mul:
		val = new(big.Int).Mul(a, b)
	case ir.Div:
		if b.Sign() == 0 {
			return nil, errors.WithStack(ErrDivisionByZero)
		}
		val = new(big.Int).Div(a, b)
	case ir.Mod:
		if b.Sign() == 0 {
			return nil, errors.WithStack(ErrDivisionByZero)
		}
		val = new(big.Int).Mod(a, b)
	case ir.BitAnd:
		val = ev.bitwise.And(a, b)
	case ir.BitOr:
		val = ev.bitwise.Or(a, b)
	case ir.BitXor:
		val = ev.bitwise.Xor(a, b)
	default:
		return nil, fmterr.Internalf("binary operator %s not supported", op)
	}
	return &ir.IntValue{Val: val}, nil
}

// Unary applies a unary operator to a value.
func (ev *Evaluator) Unary(op ir.UnaryOp, x ir.Value) (ir.Value, error) {
	switch xT := x.(type) {
	case *ir.BoolValue:
		if op == ir.Not {
			return ir.BoolVal(!xT.Val), nil
		}
	case *ir.IntValue:
		switch op {
		case ir.Neg:
			return &ir.IntValue{Val: new(big.Int).Neg(xT.Val)}, nil
		case ir.BitNot:
			return &ir.IntValue{Val: ev.bitwise.Not(xT.Val)}, nil
		}
	}
	return nil, fmterr.Internalf("unary operator %s not supported on %s", op, x)
}

func (ev *Evaluator) evalArray(env *Env, x ir.Expr) (*ir.ArrayValue, error) {
	val, err := ev.Eval(env, x)
	if err != nil {
		return nil, err
	}
	array, ok := val.(*ir.ArrayValue)
	if !ok {
		return nil, fmterr.Internalf("%s evaluates to %T: array expected", x, val)
	}
	return array, nil
}

func (ev *Evaluator) evalSelect(env *Env, x *ir.SelectExpr) (ir.Value, error) {
	array, err := ev.evalArray(env, x.Array)
	if err != nil {
		return nil, err
	}
	index, err := ev.evalInt(env, x.Index)
	if err != nil {
		return nil, err
	}
	return array.Select(index), nil
}

func (ev *Evaluator) evalStore(env *Env, x *ir.StoreExpr) (ir.Value, error) {
	array, err := ev.evalArray(env, x.Array)
	if err != nil {
		return nil, err
	}
	index, err := ev.evalInt(env, x.Index)
	if err != nil {
		return nil, err
	}
	val, err := ev.Eval(env, x.Value)
	if err != nil {
		return nil, err
	}
	return array.Store(index, val), nil
}

func (ev *Evaluator) evalApp(env *Env, x *ir.AppExpr) (ir.Value, error) {
	if len(x.Params) != len(x.Op.Params) || len(x.Args) != len(x.Op.Args) {
		return nil, fmterr.Internalf("%s: wrong number of parameters or arguments", x)
	}
	callee := NewEnv()
	params, err := ev.evalAll(env, x.Params)
	if err != nil {
		return nil, err
	}
	for i, param := range x.Op.Params {
		callee = callee.WithVar(param.Name, params[i])
	}
	args, err := ev.evalAll(env, x.Args)
	if err != nil {
		return nil, err
	}
	for i, arg := range x.Op.Args {
		callee = callee.WithVar(arg.Name, args[i])
	}
	return ev.Eval(callee, x.Op.Body)
}
