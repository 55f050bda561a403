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

package inline_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SecPriv/EtherTrust-sub001/build/eval"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	ih "github.com/SecPriv/EtherTrust-sub001/build/ir/irhelper"
	"github.com/SecPriv/EtherTrust-sub001/build/lower/inline"
	"github.com/SecPriv/EtherTrust-sub001/build/selector"
)

var (
	intT   = ir.Int()
	x      = ih.Var("x", intT)
	double = ih.Operation("double", intT, ih.Add(x, x), x)
	quad   = ih.Operation("quad", intT, ih.App(double, ih.App(double, x)), x)
)

func hasApp(c *ir.Clause) bool {
	return ir.AnyInClause(c, func(x ir.Expr) bool {
		_, ok := x.(*ir.AppExpr)
		return ok
	})
}

func TestInlineRule(t *testing.T) {
	p := ih.Predicate("P", nil, intT)
	a := ih.FreeVar("a", intT)
	rule := ih.Rule("r", nil, ih.Clause(
		ih.Apply(p, nil, ih.App(quad, a)),
		ih.Apply(p, nil, a),
		ih.Prop(ih.Gt(ih.App(double, a), ih.Int(0))),
	))
	rules, err := inline.New([]*ir.Operation{double, quad}).Rules().Rewrite(rule)
	if err != nil {
		t.Fatal(err)
	}
	got := rules[0].Clauses[0]
	if hasApp(got) {
		t.Errorf("operation application left in %s", got)
	}
	want := "[?a:int] P(?a), ((?a + ?a) > 0) => P(((?a + ?a) + (?a + ?a)))"
	if diff := cmp.Diff(got.String(), want); diff != "" {
		t.Errorf("unexpected clause:\n%s", diff)
	}
}

func TestFlattened(t *testing.T) {
	in := inline.New([]*ir.Operation{double, quad})
	body, err := in.Flattened(quad)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := body.String(), "((x + x) + (x + x))"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestReversedOrderFails(t *testing.T) {
	a := ih.FreeVar("a", intT)
	_, err := inline.New([]*ir.Operation{quad, double}).Exprs().Rewrite(ih.App(quad, a))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !fmterr.IsInternal(err) {
		t.Errorf("got error %v but want an internal error", err)
	}
	// The order is only checked when a flattened body is needed.
	got, err := inline.New([]*ir.Operation{quad, double}).Exprs().Rewrite(ih.App(double, a))
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "(?a + ?a)" {
		t.Errorf("got %s but want (?a + ?a)", got)
	}
}

func TestFreshScopes(t *testing.T) {
	none := ih.Constructor("None")
	some := ih.Constructor("Some", intT)
	option := ir.NewCustomType("Option", none, some)
	o := ih.Var("o", option)
	v := ih.Var("v", intT)
	get := ih.Operation("get", intT, ih.Match(o,
		ih.Branch(v, ih.PValue(some, ih.Wildcard("v", intT))),
		ih.Branch(ih.Int(0), ih.Blank(option)),
	), o)
	j := ih.ParVar("j", intT)
	n := ih.Var("n", intT)
	total := ih.Operation("total", intT,
		ih.Sum(ih.Compound(ih.Invoke(selector.IntervalN, []*ir.ParVarExpr{j}, n)), ir.Add, ih.Add(j, ih.App(get, ih.Ctor(some, j)))),
		n,
	)
	in := inline.New([]*ir.Operation{get, total})
	expr := ih.Add(ih.App(get, ih.Ctor(some, ih.Int(2))), ih.App(get, ih.Ctor(none)))
	got, err := in.Exprs().Rewrite(expr)
	if err != nil {
		t.Fatal(err)
	}
	want := "(match (Some(2)) with | Some(get#0&&v) => get#0&&v | _ => 0 + match (None) with | Some(get#1&&v) => get#1&&v | _ => 0)"
	if diff := cmp.Diff(got.String(), want); diff != "" {
		t.Errorf("unexpected expression:\n%s", diff)
	}

	sum, err := in.Exprs().Rewrite(ih.App(total, ih.Int(4)))
	if err != nil {
		t.Fatal(err)
	}
	ev := eval.New(eval.WithDomain(selector.Builtins()))
	val, err := ev.Eval(eval.NewEnv(), sum)
	if err != nil {
		t.Fatalf("cannot evaluate %s: %v", sum, err)
	}
	// sum of 2*j for j in [0, 4)
	if val.String() != "12" {
		t.Errorf("%s evaluates to %s but want 12", sum, val)
	}
	direct, err := ev.Eval(eval.NewEnv(), ih.App(total, ih.Int(4)))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.ValueEqual(val, direct) {
		t.Errorf("inlined expression evaluates to %s but the application evaluates to %s", val, direct)
	}
}
