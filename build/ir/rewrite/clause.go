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

package rewrite

import (
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

type (
	// PropFunc rewrites a proposition.
	// It returns false to fall back to the structural recursion.
	PropFunc func(rw *Props, p ir.Proposition) (ir.Proposition, bool, error)

	// Props rewrites propositions.
	Props struct {
		Exprs *Exprs
		f     PropFunc
	}

	// ClauseFunc rewrites a clause into zero, one, or more clauses.
	// It returns false to fall back to the structural recursion.
	ClauseFunc func(rw *Clauses, c *ir.Clause) ([]*ir.Clause, bool, error)

	// Clauses rewrites clauses.
	Clauses struct {
		Props *Props
		f     ClauseFunc
	}
)

// NewProps returns a proposition rewriter lifted from an expression rewriter.
func NewProps(exprs *Exprs, f PropFunc) *Props {
	if exprs == nil {
		exprs = NewExprs(nil)
	}
	return &Props{Exprs: exprs, f: f}
}

// Rewrite a proposition.
func (rw *Props) Rewrite(p ir.Proposition) (ir.Proposition, error) {
	if rw.f != nil {
		res, done, err := rw.f(rw, p)
		if err != nil {
			return nil, err
		}
		if done {
			return res, nil
		}
	}
	return rw.Structural(p)
}

// Predicate rewrites a predicate application.
// It fails if the rewrite does not return a predicate application.
func (rw *Props) Predicate(p *ir.PredicateProp) (*ir.PredicateProp, error) {
	res, err := rw.Rewrite(p)
	if err != nil {
		return nil, err
	}
	resT, ok := res.(*ir.PredicateProp)
	if !ok {
		return nil, fmterr.Internalf("predicate application %s rewritten into %T", p, res)
	}
	return resT, nil
}

// Structural rebuilds a proposition from its rewritten expressions.
func (rw *Props) Structural(p ir.Proposition) (ir.Proposition, error) {
	switch pT := p.(type) {
	case *ir.PredicateProp:
		params, paramsChanged, err := rw.Exprs.RewriteAll(pT.Params)
		if err != nil {
			return nil, err
		}
		args, argsChanged, err := rw.Exprs.RewriteAll(pT.Args)
		if err != nil || (!paramsChanged && !argsChanged) {
			return p, err
		}
		return &ir.PredicateProp{Pred: pT.Pred, Params: params, Args: args}, nil
	case *ir.ExprProp:
		x, err := rw.Exprs.Rewrite(pT.X)
		if err != nil || x == pT.X {
			return p, err
		}
		return &ir.ExprProp{X: x}, nil
	}
	return nil, fmterr.Internalf("proposition %T not supported", p)
}

// NewClauses returns a clause rewriter lifted from a proposition rewriter.
func NewClauses(props *Props, f ClauseFunc) *Clauses {
	if props == nil {
		props = NewProps(nil, nil)
	}
	return &Clauses{Props: props, f: f}
}

// Rewrite a clause.
func (rw *Clauses) Rewrite(c *ir.Clause) ([]*ir.Clause, error) {
	if rw.f != nil {
		res, done, err := rw.f(rw, c)
		if err != nil {
			return nil, err
		}
		if done {
			return res, nil
		}
	}
	res, err := rw.Structural(c)
	if err != nil {
		return nil, err
	}
	return []*ir.Clause{res}, nil
}

// Structural rebuilds a clause from its rewritten propositions.
// If any proposition changed, the free variables of the clause are collected again.
func (rw *Clauses) Structural(c *ir.Clause) (*ir.Clause, error) {
	changed := false
	premises := make([]ir.Proposition, len(c.Premises))
	for i, premise := range c.Premises {
		var err error
		if premises[i], err = rw.Props.Rewrite(premise); err != nil {
			return nil, err
		}
		changed = changed || premises[i] != premise
	}
	conclusion, err := rw.Props.Predicate(c.Conclusion)
	if err != nil {
		return nil, err
	}
	if !changed && conclusion == c.Conclusion {
		return c, nil
	}
	return ir.NewClause(premises, conclusion), nil
}

// RewriteAll rewrites a list of clauses.
func (rw *Clauses) RewriteAll(cs []*ir.Clause) ([]*ir.Clause, bool, error) {
	var res []*ir.Clause
	changed := false
	for _, c := range cs {
		cRes, err := rw.Rewrite(c)
		if err != nil {
			return nil, false, err
		}
		changed = changed || len(cRes) != 1 || cRes[0] != c
		res = append(res, cRes...)
	}
	if !changed {
		return cs, false, nil
	}
	return res, true, nil
}
