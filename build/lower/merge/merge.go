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

// Package merge chains clauses together.
//
// Chaining a clause A => P(t) with a clause P(?v), B => Q(?v) resolves the
// premise P(?v) of the second clause with the conclusion of the first one,
// which gives the clause A, B[?v := t] => Q(t).
package merge

import (
	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/base/uname"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

func samePredicate(x, y *ir.Predicate) bool {
	return x == y || x.Name == y.Name
}

// premise returns the index of the first premise of c applying pred or -1 if none.
func premise(c *ir.Clause, pred *ir.Predicate) int {
	for i, p := range c.Premises {
		pp, ok := p.(*ir.PredicateProp)
		if ok && samePredicate(pp.Pred, pred) {
			return i
		}
	}
	return -1
}

// unifier computes the substitution of the free variables of the second clause.
type unifier struct {
	subst map[string]ir.Expr
	// eqs are the equalities which cannot be solved by a substitution.
	eqs []ir.Expr
}

func (u *unifier) unify(premise, conclusion []ir.Expr) {
	for i, x := range premise {
		to := conclusion[i]
		if v, ok := x.(*ir.FreeVarExpr); ok {
			if _, bound := u.subst[v.Name]; !bound {
				u.subst[v.Name] = to
				continue
			}
		}
		u.eqs = append(u.eqs, &ir.BinaryExpr{Op: ir.Eq, X: x, Y: to})
	}
}

// Chain resolves the first premise of second applying the predicate
// concluded by first.
//
// The free variables of second bound by the premise are replaced by the
// arguments of the conclusion of first. Other free variables of second
// clashing with free variables of first are renamed.
func Chain(first, second *ir.Clause) (*ir.Clause, error) {
	concl := first.Conclusion
	at := premise(second, concl.Pred)
	if at < 0 {
		return nil, errors.Errorf("cannot chain %s with %s: no premise applies %s", first, second, concl.Pred.Name)
	}
	resolved := second.Premises[at].(*ir.PredicateProp)
	if len(resolved.Params) != len(concl.Params) || len(resolved.Args) != len(concl.Args) {
		return nil, errors.Errorf("cannot chain %s with %s: %s applied with different arities", first, second, concl.Pred.Name)
	}
	u := &unifier{subst: make(map[string]ir.Expr)}
	u.unify(resolved.Params, concl.Params)
	u.unify(resolved.Args, concl.Args)

	names := uname.New()
	for name := range first.FreeVars.Keys() {
		names.Register(name)
	}
	for name := range second.FreeVars.Keys() {
		names.Register(name)
	}
	for name, tp := range second.FreeVars.Iter() {
		if _, bound := u.subst[name]; bound {
			continue
		}
		if !first.FreeVars.Has(name) {
			continue
		}
		u.subst[name] = &ir.FreeVarExpr{Name: names.Name(name), Typ: tp}
	}

	props := rewrite.NewProps(rewrite.SubstFreeVars(u.subst), nil)
	premises := append([]ir.Proposition{}, first.Premises...)
	for i, p := range second.Premises {
		if i == at {
			for _, eq := range u.eqs {
				x, err := props.Exprs.Rewrite(eq)
				if err != nil {
					return nil, err
				}
				premises = append(premises, &ir.ExprProp{X: x})
			}
			continue
		}
		res, err := props.Rewrite(p)
		if err != nil {
			return nil, err
		}
		premises = append(premises, res)
	}
	conclusion, err := props.Predicate(second.Conclusion)
	if err != nil {
		return nil, err
	}
	return ir.NewClause(premises, conclusion), nil
}

// Merge chains a sequence of clauses from left to right.
func Merge(clauses []*ir.Clause) (*ir.Clause, error) {
	if len(clauses) == 0 {
		return nil, errors.Errorf("no clause to merge")
	}
	res := clauses[0]
	for _, c := range clauses[1:] {
		var err error
		if res, err = Chain(res, c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Rules merges the clauses of a sequence of ground rules.
func Rules(rules []*ir.Rule) (*ir.Clause, error) {
	var clauses []*ir.Clause
	for _, r := range rules {
		clauses = append(clauses, r.Clauses...)
	}
	return Merge(clauses)
}
