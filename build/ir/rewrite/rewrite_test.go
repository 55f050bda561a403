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

package rewrite_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	ih "github.com/SecPriv/EtherTrust-sub001/build/ir/irhelper"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

var (
	intT = ir.Int()
	oo   = ih.Predicate("Oo", []ir.Type{intT}, intT, intT)
	x    = ih.FreeVar("x", intT)
	y    = ih.FreeVar("y", intT)
	i    = ih.ParVar("i", intT)
)

func ooClause() *ir.Clause {
	return ih.Clause(
		ih.Apply(oo, []ir.Expr{ih.Add(i, ih.Int(1))}, x, y),
		ih.Apply(oo, []ir.Expr{i}, x, y),
		ih.Prop(ih.Gt(x, i)),
		ih.Prop(ih.Gt(x, y)),
	)
}

func prime(name string) string { return name + "'" }

func TestRenameAtEveryLevel(t *testing.T) {
	rename := rewrite.RenameFreeVars(prime)

	gotExpr, err := rename.Rewrite(ih.Gt(x, y))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := gotExpr.String(), "(?x' > ?y')"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}

	clauses, err := rewrite.NewClauses(rewrite.NewProps(rename, nil), nil).Rewrite(ooClause())
	if err != nil {
		t.Fatal(err)
	}
	wantClause := "[?x':int, ?y':int] Oo{!i}(?x', ?y'), (?x' > !i), (?x' > ?y') => Oo{(!i + 1)}(?x', ?y')"
	if diff := cmp.Diff(clauses[0].String(), wantClause); diff != "" {
		t.Errorf("unexpected clause:\n%s", diff)
	}

	rules, err := rewrite.Lift(rename).Rewrite(ih.Rule("r", nil, ooClause(), ooClause()))
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 || len(rules[0].Clauses) != 2 {
		t.Fatalf("got %d rules but want 1 rule with 2 clauses", len(rules))
	}
	for _, c := range rules[0].Clauses {
		if c.String() != wantClause {
			t.Errorf("got %s but want %s", c, wantClause)
		}
	}
}

func TestStructuralSharing(t *testing.T) {
	identity := rewrite.Lift(rewrite.NewExprs(nil))
	r := ih.Rule("r", nil, ooClause())
	got, err := identity.Rewrite(r)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != r {
		t.Errorf("unchanged rule has been rebuilt")
	}
	// Only the premises referencing ?y are rebuilt.
	c := ooClause()
	renamed, err := rewrite.NewClauses(rewrite.NewProps(rewrite.RenameFreeVars(func(n string) string {
		if n == "y" {
			return "z"
		}
		return n
	}), nil), nil).Structural(c)
	if err != nil {
		t.Fatal(err)
	}
	if renamed.Premises[1] != c.Premises[1] {
		t.Errorf("premise %s has been rebuilt", c.Premises[1])
	}
	if renamed.Premises[2] == c.Premises[2] {
		t.Errorf("premise %s has not been rebuilt", c.Premises[2])
	}
	if !renamed.FreeVars.Has("z") || renamed.FreeVars.Has("y") {
		t.Errorf("free variables not updated: %s", renamed)
	}
}

func TestManyClausesAndRules(t *testing.T) {
	// Drop clauses with a literal false premise.
	filter := rewrite.NewClauses(nil, func(_ *rewrite.Clauses, c *ir.Clause) ([]*ir.Clause, bool, error) {
		for _, p := range c.Premises {
			if ep, ok := p.(*ir.ExprProp); ok && ir.Equal(ep.X, ih.False()) {
				return nil, true, nil
			}
		}
		return nil, false, nil
	})
	dead := ih.Clause(ih.Apply(oo, []ir.Expr{i}, x, y), ih.Prop(ih.False()))
	duplicate := rewrite.NewRules(filter, func(rw *rewrite.Rules, r *ir.Rule) ([]*ir.Rule, bool, error) {
		first, err := rw.Structural(r)
		if err != nil {
			return nil, false, err
		}
		second := *first
		second.Name += "_copy"
		return []*ir.Rule{first, &second}, true, nil
	})
	got, err := duplicate.RewriteAll([]*ir.Rule{ih.Rule("r", nil, ooClause(), dead)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Name != "r_copy" {
		t.Fatalf("got %d rules but want r and r_copy", len(got))
	}
	for _, r := range got {
		if len(r.Clauses) != 1 {
			t.Errorf("rule %s has %d clauses but want 1", r.Name, len(r.Clauses))
		}
	}
}

func TestErrorsAreCollected(t *testing.T) {
	fail := rewrite.Lift(rewrite.NewExprs(func(_ *rewrite.Exprs, x ir.Expr) (ir.Expr, bool, error) {
		if _, ok := x.(*ir.ParVarExpr); ok {
			return nil, false, fmterr.Internalf("parameter %s not instantiated", x)
		}
		return nil, false, nil
	}))
	_, err := fail.RewriteAll([]*ir.Rule{
		ih.Rule("r1", nil, ooClause()),
		ih.Rule("r2", nil, ih.Clause(ih.Apply(oo, []ir.Expr{ih.Int(0)}, x, y))),
		ih.Rule("r3", nil, ooClause()),
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "rule r1:") || !strings.Contains(msg, "rule r3:") || strings.Contains(msg, "rule r2:") {
		t.Errorf("unexpected error message:\n%s", msg)
	}
	if !fmterr.IsInternal(err) {
		t.Errorf("error %v should be internal", err)
	}
}

func TestSubstParVarsShadowing(t *testing.T) {
	j := ih.ParVar("j", intT)
	interval := ih.Selector("interval", []ir.Type{intT}, intT)
	sum := &ir.SumExpr{
		Invocation: ih.Compound(ih.Invoke(interval, []*ir.ParVarExpr{j}, i)),
		Op:         &ir.BuiltinSum{Op: ir.Add},
		Body:       ih.Add(i, j),
	}
	got, err := rewrite.SubstParVars(map[string]ir.Expr{"i": ih.Int(3), "j": ih.Int(7)}).Rewrite(sum)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := got.String(), "sum{(!j) in interval(3)}(+, (3 + !j))"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}
