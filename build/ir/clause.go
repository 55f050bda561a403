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

package ir

import (
	goiter "iter"

	"github.com/SecPriv/EtherTrust-sub001/base/iter"
	"github.com/SecPriv/EtherTrust-sub001/base/ordered"
)

type (
	// Predicate is a relation declaration.
	// Parameters are compile-time values: every distinct parameter value
	// defines a distinct ground relation.
	Predicate struct {
		Name       string
		ParamTypes []Type
		ArgTypes   []Type
	}

	// PredicateProp applies a predicate.
	PredicateProp struct {
		Pred   *Predicate
		Params []Expr
		Args   []Expr
	}

	// ExprProp is a boolean condition.
	ExprProp struct {
		X Expr
	}

	// Clause is a Horn clause: the conjunction of the premises implies the conclusion.
	Clause struct {
		Premises   []Proposition
		Conclusion *PredicateProp
		// FreeVars maps the name of every free variable referenced
		// in the clause to its type.
		FreeVars *ordered.Map[string, Type]
	}

	// RuleKind specifies how a rule is used by the solver.
	RuleKind int

	// Expectation is the expected result of a test.
	Expectation int

	// Rule is a family of clauses indexed by the points of a selector domain.
	Rule struct {
		Name       string
		Invocation *CompoundInvocation
		Clauses    []*Clause

		Kind   RuleKind
		Expect Expectation
	}

	// Operation is a pure expression macro. Operations are always inlined.
	// Params and Args are referenced in the body as local variables.
	Operation struct {
		Name   string
		Params []*VarExpr
		Args   []*VarExpr
		Result Type
		Body   Expr
	}
)

const (
	// DefinitionRule is a rule defining clauses.
	DefinitionRule RuleKind = iota
	// QueryRule is a rule whose conclusion predicates are queried.
	QueryRule
	// TestRule is a query with an expected result.
	TestRule
)

const (
	// ExpectNothing is used for rules which are not tests.
	ExpectNothing Expectation = iota
	// ExpectSat expects the query to be reachable.
	ExpectSat
	// ExpectUnsat expects the query to be unreachable.
	ExpectUnsat
)

var (
	_ Proposition = (*PredicateProp)(nil)
	_ Proposition = (*ExprProp)(nil)
)

func (k RuleKind) String() string {
	switch k {
	case QueryRule:
		return "query"
	case TestRule:
		return "test"
	}
	return "rule"
}

func (e Expectation) String() string {
	switch e {
	case ExpectSat:
		return "SAT"
	case ExpectUnsat:
		return "UNSAT"
	}
	return ""
}

func (*Predicate) node() {}

// IsParametric returns true if the predicate takes compile-time parameters.
func (p *Predicate) IsParametric() bool {
	return len(p.ParamTypes) > 0
}

func (*PredicateProp) node()        {}
func (*PredicateProp) proposition() {}

func (*ExprProp) node()        {}
func (*ExprProp) proposition() {}

func (*Clause) node() {}

// NewClause returns a new clause. The free variables are collected from the
// premises and the conclusion in order of appearance.
func NewClause(premises []Proposition, conclusion *PredicateProp) *Clause {
	c := &Clause{Premises: premises, Conclusion: conclusion}
	c.FreeVars = CollectFreeVars(c)
	return c
}

// Propositions iterates over all the propositions of a clause:
// the premises followed by the conclusion.
func (c *Clause) Propositions() goiter.Seq[Proposition] {
	return iter.All(c.Premises, []Proposition{c.Conclusion})
}

func isAtom(p Proposition) bool {
	_, ok := p.(*PredicateProp)
	return ok
}

// Atoms iterates over the predicate applications of a clause,
// the conclusion last.
func (c *Clause) Atoms() goiter.Seq[*PredicateProp] {
	return func(yield func(*PredicateProp) bool) {
		for p := range iter.Filter(isAtom, c.Premises, []Proposition{c.Conclusion}) {
			if !yield(p.(*PredicateProp)) {
				return
			}
		}
	}
}

func (*Rule) node() {}

// IsGround returns true if the rule has no parameter left to instantiate.
func (r *Rule) IsGround() bool {
	return r.Invocation.IsUnit()
}

// IsQuery returns true for queries and tests.
func (r *Rule) IsQuery() bool {
	return r.Kind != DefinitionRule
}

func (*Operation) node() {}
