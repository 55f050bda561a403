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

package ir_test

import (
	"math/big"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	ih "github.com/SecPriv/EtherTrust-sub001/build/ir/irhelper"
)

var (
	intT  = ir.Int()
	boolT = ir.Bool()

	oo = ih.Predicate("Oo", []ir.Type{intT}, intT, intT)
	x  = ih.FreeVar("x", intT)
	y  = ih.FreeVar("y", intT)
	i  = ih.ParVar("i", intT)
)

func ooClause() *ir.Clause {
	return ih.Clause(
		ih.Apply(oo, []ir.Expr{ih.Add(i, ih.Int(1))}, x, y),
		ih.Apply(oo, []ir.Expr{i}, x, y),
		ih.Prop(ih.Gt(x, i)),
		ih.Prop(ih.Gt(x, y)),
	)
}

func TestClauseString(t *testing.T) {
	got := ooClause().String()
	want := "[?x:int, ?y:int] Oo{!i}(?x, ?y), (?x > !i), (?x > ?y) => Oo{(!i + 1)}(?x, ?y)"
	if got != want {
		t.Errorf("got:\n%s\nbut want:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
}

func TestClausePropositions(t *testing.T) {
	c := ooClause()
	var props, atoms []string
	for p := range c.Propositions() {
		props = append(props, p.String())
	}
	for a := range c.Atoms() {
		atoms = append(atoms, a.String())
	}
	wantProps := []string{"Oo{!i}(?x, ?y)", "(?x > !i)", "(?x > ?y)", "Oo{(!i + 1)}(?x, ?y)"}
	if diff := cmp.Diff(props, wantProps); diff != "" {
		t.Errorf("unexpected propositions:\n%s", diff)
	}
	wantAtoms := []string{"Oo{!i}(?x, ?y)", "Oo{(!i + 1)}(?x, ?y)"}
	if diff := cmp.Diff(atoms, wantAtoms); diff != "" {
		t.Errorf("unexpected atoms:\n%s", diff)
	}
}

func TestCollectFreeVars(t *testing.T) {
	z := ih.FreeVar("z", boolT)
	c := ih.Clause(ih.Apply(oo, []ir.Expr{ih.Int(0)}, y, x), ih.Prop(z))
	got := slices.Collect(c.FreeVars.Keys())
	want := []string{"z", "y", "x"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v but want %v", got, want)
	}
	if tp, _ := c.FreeVars.Load("z"); !tp.Equal(boolT) {
		t.Errorf("got type %s for ?z but want bool", tp)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		x, y ir.Expr
		want bool
	}{
		{x: ih.Int(1), y: ih.Int(1), want: true},
		{x: ih.Int(1), y: ih.Int(2), want: false},
		{x: ih.Int(1), y: ih.True(), want: false},
		{x: ih.Add(x, ih.Int(1)), y: ih.Add(x, ih.Int(1)), want: true},
		{x: ih.Add(x, ih.Int(1)), y: ih.Add(ih.Int(1), x), want: false},
		{x: x, y: ih.Var("x", intT), want: false},
		{x: ih.ConstArray(ih.Int(0)), y: ih.ConstArray(ih.Int(0)), want: true},
		{x: ih.Cond(ih.True(), x, y), y: ih.Cond(ih.True(), x, y), want: true},
		{x: ih.Store(ih.ConstArray(ih.Int(0)), ih.Int(1), x), y: ih.Store(ih.ConstArray(ih.Int(0)), ih.Int(1), y), want: false},
	}
	for n, test := range tests {
		if got := ir.Equal(test.x, test.y); got != test.want {
			t.Errorf("test %d: Equal(%s, %s) = %v but want %v", n, test.x, test.y, got, test.want)
		}
	}
}

func TestArrayValue(t *testing.T) {
	empty := ir.NewArrayValue(intT, ir.IntVal(0))
	one := empty.Store(big.NewInt(3), ir.IntVal(7))
	two := one.Store(big.NewInt(1), ir.IntVal(5))
	back := two.Store(big.NewInt(3), ir.IntVal(0))
	if got := empty.Select(big.NewInt(3)).String(); got != "0" {
		t.Errorf("persistent array modified by a store: got %s but want 0", got)
	}
	if got := two.String(); got != "[0;1:5;3:7]" {
		t.Errorf("got %s but want [0;1:5;3:7]", got)
	}
	if got := back.String(); got != "[0;1:5]" {
		t.Errorf("got %s but want [0;1:5]", got)
	}
	if !ir.ValueEqual(back, empty.Store(big.NewInt(1), ir.IntVal(5))) {
		t.Errorf("%s and [0;1:5] should be equal", back)
	}
	if ir.ValueEqual(one, two) {
		t.Errorf("%s and %s should be different", one, two)
	}
}

func TestLiteral(t *testing.T) {
	vals := []ir.Value{
		ir.IntVal(-4),
		ir.BoolVal(true),
		ir.NewArrayValue(boolT, ir.BoolVal(false)).Store(big.NewInt(2), ir.BoolVal(true)),
		ir.NewArrayValue(ir.Array(intT), ir.NewArrayValue(intT, ir.IntVal(1))),
	}
	for n, val := range vals {
		lit := ir.Literal(val)
		if !ir.IsLiteral(lit) {
			t.Errorf("test %d: %s is not a literal", n, lit)
		}
		if !lit.Type().Equal(val.Type()) {
			t.Errorf("test %d: literal has type %s but want %s", n, lit.Type(), val.Type())
		}
		got := ir.ValueOf(lit)
		if !ir.ValueEqual(got, val) {
			t.Errorf("test %d: got %s but want %s", n, got, val)
		}
	}
	if ir.IsLiteral(ih.Add(ih.Int(1), ih.Int(2))) || ir.ValueOf(x) != nil {
		t.Errorf("non-literal expressions reported as literals")
	}
}

func TestPatterns(t *testing.T) {
	pair := ih.Constructor("Pair", intT, intT)
	none := ih.Constructor("None")
	opt := ir.NewCustomType("Opt", none, pair)
	if pair.Ordinal != 1 || pair.Type != opt || opt.Constructor("None") != none {
		t.Fatalf("constructors not attached to their type")
	}
	p := ih.PValue(pair, ih.Wildcard("a", intT), ih.Blank(intT))
	if got := ir.PatternNames(p); !slices.Equal(got, []string{"a"}) {
		t.Errorf("got %v but want [a]", got)
	}
	if got := p.String(); got != "Pair(a, _)" {
		t.Errorf("got %s but want Pair(a, _)", got)
	}
	m := ih.Match(ih.Ctor(pair, ih.Int(1), ih.Int(2)),
		ih.Branch(ih.Var("a", intT), p),
		ih.Branch(ih.Int(0), ih.Blank(opt)),
	)
	if got, want := m.String(), "match (Pair(1, 2)) with | Pair(a, _) => a | _ => 0"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestSignature(t *testing.T) {
	fn := ih.Selector("interval", []ir.Type{intT}, intT)
	if got, want := fn.Signature(), "interval(int)->(int)"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	inv := ih.Compound(ih.Invoke(fn, []*ir.ParVarExpr{i}, ih.Int(5)))
	if inv.IsUnit() || len(inv.Binds()) != 1 || !ir.Unit().IsUnit() {
		t.Errorf("invalid unit detection for %s", inv)
	}
}
