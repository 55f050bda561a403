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

package merge_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	ih "github.com/SecPriv/EtherTrust-sub001/build/ir/irhelper"
	"github.com/SecPriv/EtherTrust-sub001/build/lower/instantiate"
	"github.com/SecPriv/EtherTrust-sub001/build/lower/merge"
	"github.com/SecPriv/EtherTrust-sub001/build/selector"
)

var intT = ir.Int()

func TestEndToEnd(t *testing.T) {
	oo := ih.Predicate("Oo", []ir.Type{intT}, intT, intT)
	x := ih.FreeVar("x", intT)
	y := ih.FreeVar("y", intT)
	i := ih.ParVar("i", intT)
	r := ih.Rule("step", ih.Compound(ih.Invoke(selector.IntervalN, []*ir.ParVarExpr{i}, ih.Int(5))), ih.Clause(
		ih.Apply(oo, []ir.Expr{ih.Add(i, ih.Int(1))}, x, y),
		ih.Apply(oo, []ir.Expr{i}, x, y),
		ih.Prop(ih.Gt(x, i)),
		ih.Prop(ih.Gt(x, y)),
	))
	rules, err := instantiate.New(selector.Builtins()).Rule(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 5 {
		t.Fatalf("got %d rules but want 5", len(rules))
	}
	merged, err := merge.Rules(rules)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := merged.FreeVars.Size(), 2; got != want {
		t.Errorf("got %d free variables but want %d", got, want)
	}
	if got, want := len(merged.Premises), 11; got != want {
		t.Errorf("got %d premises but want %d", got, want)
	}
	if got, want := merged.Conclusion.String(), "Oo_5(?x, ?y)"; got != want {
		t.Errorf("got conclusion %s but want %s", got, want)
	}
	if got, want := merged.Premises[0].String(), "Oo_0(?x, ?y)"; got != want {
		t.Errorf("got first premise %s but want %s", got, want)
	}
}

func TestChain(t *testing.T) {
	p := ih.Predicate("P", nil, intT, intT)
	q := ih.Predicate("Q", nil, intT)
	r := ih.Predicate("R", nil, intT)
	a := ih.FreeVar("a", intT)
	b := ih.FreeVar("b", intT)
	c := ih.FreeVar("c", intT)
	tests := []struct {
		first, second *ir.Clause
		want          string
	}{
		{
			first:  ih.Clause(ih.Apply(p, nil, ih.Add(a, ih.Int(1)), a), ih.Apply(q, nil, a)),
			second: ih.Clause(ih.Apply(r, nil, b), ih.Apply(p, nil, b, c), ih.Prop(ih.Gt(b, c))),
			want:   "[?a:int] Q(?a), ((?a + 1) > ?a) => R((?a + 1))",
		},
		{
			first:  ih.Clause(ih.Apply(p, nil, a, ih.Int(0)), ih.Apply(q, nil, a)),
			second: ih.Clause(ih.Apply(r, nil, a), ih.Apply(q, nil, a), ih.Apply(p, nil, b, b)),
			want:   "[?a:int, ?a1:int] Q(?a), Q(?a1), (?a == 0) => R(?a1)",
		},
	}
	for _, test := range tests {
		got, err := merge.Chain(test.first, test.second)
		if err != nil {
			t.Fatalf("cannot chain %s with %s: %v", test.first, test.second, err)
		}
		if diff := cmp.Diff(got.String(), test.want); diff != "" {
			t.Errorf("unexpected clause:\n%s", diff)
		}
	}
}

func TestChainErrors(t *testing.T) {
	p := ih.Predicate("P", nil, intT)
	q := ih.Predicate("Q", nil, intT)
	a := ih.FreeVar("a", intT)
	if _, err := merge.Chain(ih.Clause(ih.Apply(p, nil, a)), ih.Clause(ih.Apply(q, nil, a), ih.Apply(q, nil, a))); err == nil {
		t.Errorf("chaining clauses without a common predicate: expected an error")
	}
	if _, err := merge.Merge(nil); err == nil {
		t.Errorf("merging no clause: expected an error")
	}
}
