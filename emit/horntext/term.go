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

package horntext

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

var binaryOps = map[ir.BinaryOp]string{
	ir.Add: "+", ir.Sub: "-", ir.Mul: "*", ir.Div: "div", ir.Mod: "mod",
	ir.And: "and", ir.Or: "or",
	ir.Eq: "=", ir.Lt: "<", ir.Le: "<=", ir.Gt: ">", ir.Ge: ">=",
}

var bitwiseOps = map[ir.BinaryOp]string{
	ir.BitAnd: "bvand", ir.BitOr: "bvor", ir.BitXor: "bvxor",
}

func (w *writer) terms(xs []ir.Expr) ([]string, error) {
	res := make([]string, len(xs))
	for i, x := range xs {
		var err error
		if res[i], err = w.term(x); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func app(op string, args ...string) string {
	return fmt.Sprintf("(%s %s)", op, strings.Join(args, " "))
}

// toBV converts an integer term into a bit-vector of the width of the writer.
func (w *writer) toBV(x string) string {
	return fmt.Sprintf("((_ int2bv %d) %s)", w.bitwidth, x)
}

func (w *writer) term(x ir.Expr) (string, error) {
	switch xT := x.(type) {
	case *ir.IntLit:
		if xT.Val.Sign() < 0 {
			return app("-", new(big.Int).Neg(xT.Val).String()), nil
		}
		return xT.Val.String(), nil
	case *ir.BoolLit:
		return xT.String(), nil
	case *ir.ArrayLit:
		s, err := sort(xT.Type())
		if err != nil {
			return "", err
		}
		init, err := w.term(xT.Init)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("((as const %s) %s)", s, init), nil
	case *ir.FreeVarExpr:
		return xT.Name, nil
	case *ir.ConstExpr:
		return w.term(xT.Value)
	case *ir.BinaryExpr:
		return w.binary(xT)
	case *ir.UnaryExpr:
		operand, err := w.term(xT.X)
		if err != nil {
			return "", err
		}
		switch xT.Op {
		case ir.Not:
			return app("not", operand), nil
		case ir.Neg:
			return app("-", operand), nil
		case ir.BitNot:
			return app("bv2nat", app("bvnot", w.toBV(operand))), nil
		}
		return "", fmterr.Internalf("unary operator %s not supported", xT.Op)
	case *ir.SelectExpr:
		args, err := w.terms([]ir.Expr{xT.Array, xT.Index})
		if err != nil {
			return "", err
		}
		return app("select", args...), nil
	case *ir.StoreExpr:
		args, err := w.terms([]ir.Expr{xT.Array, xT.Index, xT.Value})
		if err != nil {
			return "", err
		}
		return app("store", args...), nil
	case *ir.CondExpr:
		args, err := w.terms([]ir.Expr{xT.Cond, xT.Then, xT.Else})
		if err != nil {
			return "", err
		}
		return app("ite", args...), nil
	case *ir.VarExpr, *ir.ParVarExpr, *ir.AppExpr, *ir.ConstructorAppExpr, *ir.MatchExpr, *ir.SumExpr:
		return "", fmterr.Internalf("%s should have been eliminated before emission", x)
	}
	return "", fmterr.Internalf("expression %T not supported", x)
}

func (w *writer) binary(x *ir.BinaryExpr) (string, error) {
	args, err := w.terms([]ir.Expr{x.X, x.Y})
	if err != nil {
		return "", err
	}
	if op, ok := binaryOps[x.Op]; ok {
		return app(op, args...), nil
	}
	if op, ok := bitwiseOps[x.Op]; ok {
		return app("bv2nat", app(op, w.toBV(args[0]), w.toBV(args[1]))), nil
	}
	if x.Op == ir.Neq {
		return app("not", app("=", args...)), nil
	}
	return "", fmterr.Internalf("binary operator %s not supported", x.Op)
}
