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

package constfold_test

import (
	"testing"

	"github.com/SecPriv/EtherTrust-sub001/build/eval"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	ih "github.com/SecPriv/EtherTrust-sub001/build/ir/irhelper"
	"github.com/SecPriv/EtherTrust-sub001/build/lower/constfold"
	"github.com/SecPriv/EtherTrust-sub001/build/selector"
)

var allBinaryOps = []ir.BinaryOp{
	ir.Add, ir.Sub, ir.Mul, ir.Div, ir.Mod,
	ir.BitAnd, ir.BitOr, ir.BitXor,
	ir.Eq, ir.Neq, ir.Lt, ir.Le, ir.Gt, ir.Ge,
}

func TestFoldIsEval(t *testing.T) {
	var exprs []ir.Expr
	operands := []int64{-7, -1, 2, 5}
	for _, op := range allBinaryOps {
		for _, a := range operands {
			for _, b := range operands {
				exprs = append(exprs, ih.Binary(op, ih.Int(a), ih.Int(b)))
			}
		}
	}
	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			exprs = append(exprs,
				ih.Binary(ir.And, ih.Bool(a), ih.Bool(b)),
				ih.Binary(ir.Or, ih.Bool(a), ih.Bool(b)),
				ih.Cond(ih.Bool(a), ih.Int(1), ih.Int(2)),
			)
		}
	}
	arr := ih.Store(ih.ConstArray(ih.Int(0)), ih.Add(ih.Int(1), ih.Int(1)), ih.Int(9))
	exprs = append(exprs,
		ih.Add(ih.Mul(ih.Int(3), ih.Int(4)), ih.Binary(ir.Mod, ih.Int(-5), ih.Int(3))),
		&ir.UnaryExpr{Op: ir.Neg, X: ih.Sub(ih.Int(1), ih.Int(8))},
		&ir.UnaryExpr{Op: ir.BitNot, X: ih.Int(0)},
		ih.Not(ih.Lt(ih.Int(1), ih.Int(2))),
		ih.Select(arr, ih.Int(2)),
		ih.Select(arr, ih.Int(3)),
		&ir.ConstExpr{Name: "N", Value: ih.Mul(ih.Int(6), ih.Int(7))},
	)
	ev := eval.New()
	folder := constfold.New(ev)
	for _, x := range exprs {
		folded, err := folder.Fold(x)
		if err != nil {
			t.Fatalf("%s: %v", x, err)
		}
		if !ir.IsLiteral(folded) {
			t.Errorf("%s folded to %s: literal expected", x, folded)
			continue
		}
		want, err := ev.Eval(eval.NewEnv(), x)
		if err != nil {
			t.Fatalf("%s: %v", x, err)
		}
		if !ir.ValueEqual(ir.ValueOf(folded), want) {
			t.Errorf("%s folded to %s but evaluates to %s", x, folded, want)
		}
	}
}

func TestDivisionByZeroIsNotFolded(t *testing.T) {
	folder := constfold.New(nil)
	for _, op := range []ir.BinaryOp{ir.Div, ir.Mod} {
		x := ih.Binary(op, ih.Int(4), ih.Sub(ih.Int(2), ih.Int(2)))
		got, err := folder.Fold(x)
		if err != nil {
			t.Fatal(err)
		}
		want := ih.Binary(op, ih.Int(4), ih.Int(0))
		if !ir.Equal(got, want) {
			t.Errorf("%s folded to %s but want %s", x, got, want)
		}
	}
}

func TestIdentities(t *testing.T) {
	x := ih.FreeVar("x", ir.Int())
	c := ih.FreeVar("c", ir.Bool())
	tests := []struct {
		expr ir.Expr
		want string
	}{
		{expr: ih.Add(x, ih.Int(0)), want: "?x"},
		{expr: ih.Add(ih.Sub(ih.Int(1), ih.Int(1)), x), want: "?x"},
		{expr: ih.Mul(x, ih.Int(0)), want: "0"},
		{expr: ih.Mul(ih.Int(1), x), want: "?x"},
		{expr: ih.Binary(ir.Div, x, ih.Int(1)), want: "?x"},
		{expr: ih.Binary(ir.Mod, x, ih.Int(1)), want: "0"},
		{expr: &ir.UnaryExpr{Op: ir.Neg, X: &ir.UnaryExpr{Op: ir.Neg, X: x}}, want: "?x"},
		{expr: ih.Not(ih.Not(c)), want: "?c"},
		{expr: ih.Cond(ih.True(), x, ih.Int(3)), want: "?x"},
		{expr: ih.Cond(ih.Lt(ih.Int(3), ih.Int(1)), x, ih.Int(3)), want: "3"},
		{expr: ih.Cond(c, ih.Add(ih.Int(1), ih.Int(1)), ih.Int(2)), want: "2"},
		{expr: ih.Cond(c, ih.True(), ih.False()), want: "?c"},
		{expr: ih.Cond(c, ih.False(), ih.True()), want: "(not ?c)"},
		{expr: ih.Cond(ih.Not(c), ih.False(), ih.True()), want: "?c"},
		{expr: ih.And(ih.True(), ih.Gt(x, ih.Int(0))), want: "(?x > 0)"},
		{expr: ih.Cond(c, x, ih.Int(3)), want: "(?c ? ?x : 3)"},
		{expr: ih.Add(x, ih.Mul(ih.Int(2), ih.Int(3))), want: "(?x + 6)"},
	}
	folder := constfold.New(nil)
	for i, test := range tests {
		got, err := folder.Fold(test.expr)
		if err != nil {
			t.Fatalf("test %d: %v", i, err)
		}
		if got.String() != test.want {
			t.Errorf("test %d: %s folded to %s but want %s", i, test.expr, got, test.want)
		}
	}
}

func TestUnchangedExpressionsAreShared(t *testing.T) {
	x := ih.Gt(ih.FreeVar("x", ir.Int()), ih.FreeVar("y", ir.Int()))
	got, err := constfold.New(nil).Fold(x)
	if err != nil {
		t.Fatal(err)
	}
	if got != x {
		t.Errorf("%s has been rebuilt", x)
	}
}

func TestEliminatedNodes(t *testing.T) {
	some := ih.Constructor("Some", ir.Int())
	ir.NewCustomType("Option", some)
	v := ih.Var("v", ir.Int())
	double := ih.Operation("double", ir.Int(), ih.Add(v, v), v)
	for _, x := range []ir.Expr{
		ih.App(double, ih.Int(1)),
		ih.Ctor(some, ih.Int(1)),
		ih.Match(ih.Ctor(some, ih.Int(1)), ih.Branch(ih.Int(0), ih.Blank(some.Type))),
	} {
		_, err := constfold.New(nil).Fold(x)
		if !fmterr.IsInternal(err) {
			t.Errorf("%s: got error %v but want an internal error", x, err)
		}
	}
}

func TestFoldCustomTypes(t *testing.T) {
	some := ih.Constructor("Some", ir.Int())
	ir.NewCustomType("Option", some)
	v := ih.Var("v", ir.Int())
	x := ih.Match(ih.Ctor(some, ih.Add(ih.Int(1), ih.Int(2))), ih.Branch(ih.Add(v, ih.Mul(v, ih.Int(1))), ih.PValue(some, ih.Wildcard("v", ir.Int()))))
	o := ih.FreeVar("o", some.Type)
	y := ih.FreeVar("y", ir.Int())
	j := ih.ParVar("j", ir.Int())
	sum := ih.Sum(
		ih.Compound(ih.Invoke(selector.IntervalN, []*ir.ParVarExpr{j}, ih.Add(ih.Int(1), ih.Int(2)))),
		ir.Add, ih.Mul(j, ih.Int(1)),
	)
	tests := []struct {
		expr ir.Expr
		want string
	}{
		{
			expr: x,
			want: "6",
		},
		{
			expr: ih.Match(o, ih.Branch(ih.Add(v, ih.Int(0)), ih.PValue(some, ih.Wildcard("v", ir.Int())))),
			want: "match (?o) with | Some(v) => v",
		},
		{
			expr: ih.Match(ih.Ctor(some, ih.Int(1)), ih.Branch(ih.Add(v, y), ih.PValue(some, ih.Wildcard("v", ir.Int())))),
			want: "match (Some(1)) with | Some(v) => (v + ?y)",
		},
		{
			expr: ih.Ctor(some, ih.Mul(ih.Int(2), ih.Int(3))),
			want: "Some(6)",
		},
		{
			expr: sum,
			want: "sum{(!j) in interval(3)}(+, !j)",
		},
	}
	folder := constfold.New(nil, constfold.WithCustomTypes())
	for _, test := range tests {
		got, err := folder.Fold(test.expr)
		if err != nil {
			t.Fatalf("%s: %v", test.expr, err)
		}
		if got.String() != test.want {
			t.Errorf("%s: got %s but want %s", test.expr, got, test.want)
		}
	}
	if _, err := constfold.New(nil).Fold(sum); !fmterr.IsInternal(err) {
		t.Errorf("%s: got error %v but want an internal error", sum, err)
	}
}

func TestBitwiseDoubleNegationIsKept(t *testing.T) {
	x := ih.FreeVar("x", ir.Int())
	expr := &ir.UnaryExpr{Op: ir.BitNot, X: &ir.UnaryExpr{Op: ir.BitNot, X: x}}
	got, err := constfold.New(nil).Fold(expr)
	if err != nil {
		t.Fatal(err)
	}
	if got != expr {
		t.Errorf("got %s but want %s unchanged", got, expr)
	}
	ev := eval.New(eval.WithBitwise(eval.NewFixedWidth(8)))
	minusOne := ih.Int(-1)
	folded, err := constfold.New(ev).Fold(&ir.UnaryExpr{Op: ir.BitNot, X: &ir.UnaryExpr{Op: ir.BitNot, X: minusOne}})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := folded.String(), "255"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestPruneDeadClauses(t *testing.T) {
	intT := ir.Int()
	p := ih.Predicate("P", nil, intT)
	x := ih.FreeVar("x", intT)
	y := ih.FreeVar("y", intT)
	rule := ih.Rule("r", nil,
		ih.Clause(ih.Apply(p, nil, x), ih.Prop(ih.Gt(ih.Int(1), ih.Int(2))), ih.Apply(p, nil, y)),
		ih.Clause(ih.Apply(p, nil, x), ih.Prop(ih.Gt(ih.Int(2), ih.Int(1))), ih.Apply(p, nil, x)),
	)
	folded, err := constfold.New(nil).Rules().Rewrite(rule)
	if err != nil {
		t.Fatal(err)
	}
	pruned, err := constfold.PruneDeadClauses().RewriteAll(folded)
	if err != nil {
		t.Fatal(err)
	}
	if len(pruned) != 1 || len(pruned[0].Clauses) != 1 {
		t.Fatalf("got %v but want a single rule with a single clause", pruned)
	}
	if got, want := pruned[0].Clauses[0].String(), "[?x:int] P(?x) => P(?x)"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}
