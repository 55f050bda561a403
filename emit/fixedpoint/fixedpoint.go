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

// Package fixedpoint loads a lowered program into a fixed-point solver.
//
// The solver interface follows the fixed-point engine of Z3: relations
// are registered first, then rules are added, and finally relations are
// queried for reachability.
package fixedpoint

import (
	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/emit"
)

// Status is the answer of a solver to a query.
type Status int

const (
	// Unknown means that the solver could not decide the query.
	Unknown Status = iota
	// Satisfiable means that the queried relation is reachable.
	Satisfiable
	// Unsatisfiable means that the queried relation is unreachable.
	Unsatisfiable
)

func (s Status) String() string {
	switch s {
	case Satisfiable:
		return "SAT"
	case Unsatisfiable:
		return "UNSAT"
	}
	return "UNKNOWN"
}

// Solver is a fixed-point solver.
type Solver interface {
	// RegisterRelation declares a relation.
	RegisterRelation(rel *emit.Relation) error
	// DeclareVar declares a variable used by the rules.
	DeclareVar(v *emit.Var) error
	// AddRule adds a Horn clause.
	AddRule(c *ir.Clause, name string) error
	// Query returns whether a relation is reachable.
	Query(rel *emit.Relation) (Status, error)
}

// Result of a query.
type Result struct {
	Query  *emit.Query
	Status Status
}

// Expect returns the expected status of a test or Unknown if the query is not a test.
func (r *Result) Expect() Status {
	switch r.Query.Rule.Expect {
	case ir.ExpectSat:
		return Satisfiable
	case ir.ExpectUnsat:
		return Unsatisfiable
	}
	return Unknown
}

// Failed returns true if the query is a test and the solver did not answer the expected status.
func (r *Result) Failed() bool {
	if r.Query.Rule.Kind != ir.TestRule {
		return false
	}
	return r.Status != r.Expect()
}

// Load a program into a solver and run its queries.
func Load(s Solver, prog *emit.Program) ([]*Result, error) {
	for _, rel := range prog.Relations {
		if err := s.RegisterRelation(rel); err != nil {
			return nil, errors.Wrapf(err, "cannot register relation %s", rel.Pred.Name)
		}
	}
	for _, v := range prog.Vars {
		if err := s.DeclareVar(v); err != nil {
			return nil, errors.Wrapf(err, "cannot declare variable %s", v.Name)
		}
	}
	app := &fmterr.Appender{}
	for _, impl := range prog.Implications {
		app.Push(fmterr.PrefixWith("clause %d of %s %s: ", impl.Ref.Index, impl.Ref.Rule.Kind, impl.Ref.Rule.Name))
		app.Append(s.AddRule(impl.Clause, impl.Name))
		app.Pop()
	}
	if err := app.ToError(); err != nil {
		return nil, err
	}
	results := make([]*Result, len(prog.Queries))
	for i, q := range prog.Queries {
		status, err := s.Query(q.Relation)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot query %s", q.Relation.Pred.Name)
		}
		results[i] = &Result{Query: q, Status: status}
	}
	return results, nil
}
