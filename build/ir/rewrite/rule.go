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
	// RuleFunc rewrites a rule into zero, one, or more rules.
	// It returns false to fall back to the structural recursion.
	RuleFunc func(rw *Rules, r *ir.Rule) ([]*ir.Rule, bool, error)

	// Rules rewrites rules.
	Rules struct {
		Clauses *Clauses
		f       RuleFunc
	}
)

// NewRules returns a rule rewriter lifted from a clause rewriter.
func NewRules(clauses *Clauses, f RuleFunc) *Rules {
	if clauses == nil {
		clauses = NewClauses(nil, nil)
	}
	return &Rules{Clauses: clauses, f: f}
}

// Lift an expression rewriter to rules.
func Lift(exprs *Exprs) *Rules {
	return NewRules(NewClauses(NewProps(exprs, nil), nil), nil)
}

// Exprs returns the expression rewriter at the bottom of the stack.
func (rw *Rules) Exprs() *Exprs {
	return rw.Clauses.Props.Exprs
}

// Rewrite a rule.
func (rw *Rules) Rewrite(r *ir.Rule) ([]*ir.Rule, error) {
	if rw.f != nil {
		res, done, err := rw.f(rw, r)
		if err != nil {
			return nil, err
		}
		if done {
			return res, nil
		}
	}
	res, err := rw.Structural(r)
	if err != nil {
		return nil, err
	}
	return []*ir.Rule{res}, nil
}

// Structural rebuilds a rule from its rewritten invocation and clauses.
func (rw *Rules) Structural(r *ir.Rule) (*ir.Rule, error) {
	inv, err := rw.Exprs().Invocation(r.Invocation)
	if err != nil {
		return nil, err
	}
	clauses, changed, err := rw.Clauses.RewriteAll(r.Clauses)
	if err != nil {
		return nil, err
	}
	if !changed && inv == r.Invocation {
		return r, nil
	}
	return &ir.Rule{
		Name:       r.Name,
		Invocation: inv,
		Clauses:    clauses,
		Kind:       r.Kind,
		Expect:     r.Expect,
	}, nil
}

// RewriteAll rewrites a list of rules.
// Rules are rewritten independently: the errors of all the rules are returned together.
func (rw *Rules) RewriteAll(rules []*ir.Rule) ([]*ir.Rule, error) {
	var app fmterr.Appender
	var res []*ir.Rule
	for _, r := range rules {
		app.Push(fmterr.PrefixWith("%s %s: ", r.Kind, r.Name))
		rs, err := rw.Rewrite(r)
		app.Append(err)
		app.Pop()
		res = append(res, rs...)
	}
	if err := app.ToError(); err != nil {
		return nil, err
	}
	return res, nil
}
