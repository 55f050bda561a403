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

// Package emit collects the declarations and the implications of a lowered program.
//
// The rules given to the package must be ground and flattened: predicates
// have no parameter left and every type is primitive. The output is shared
// by the emitters: horntext writes it as text while fixedpoint loads it
// into a solver.
package emit

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/SecPriv/EtherTrust-sub001/base/ordered"
	"github.com/SecPriv/EtherTrust-sub001/base/uname"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

type (
	// Relation is the declaration of a ground predicate.
	Relation struct {
		Pred *ir.Predicate
		// PC is the program counter parsed from the name of the predicate.
		PC int
	}

	// Var is the declaration of a variable shared by the implications.
	Var struct {
		Name string
		Type ir.Type
	}

	// ClauseRef locates the clause of a rule an implication has been built from.
	ClauseRef struct {
		Rule  *ir.Rule
		Index int
	}

	// Implication is a ground clause where free variables have been
	// renamed into declared variables.
	Implication struct {
		Ref    ClauseRef
		Name   string
		Clause *ir.Clause
		PC     int
	}

	// Query asks the solver if a relation is reachable.
	Query struct {
		Rule     *ir.Rule
		Relation *Relation
	}

	// Program is the set of declarations, implications, and queries to emit.
	// Declarations always precede the implications in the emitted output.
	Program struct {
		Relations    []*Relation
		Vars         []*Var
		Implications []*Implication
		Queries      []*Query
	}

	// Option configures the collection of a program.
	Option func(*collector)

	collector struct {
		sortByPC  bool
		relations *ordered.Map[string, *Relation]
		pool      *VarPool
		names     *uname.Unique
		prog      *Program
	}
)

// SortByProgramCounter sorts relations and implications by their program counter.
// The sort is stable: relations and implications with the same counter keep their order.
func SortByProgramCounter(sort bool) Option {
	return func(c *collector) {
		c.sortByPC = sort
	}
}

// ProgramCounter returns the integer suffix of a name, that is the
// digits following the last underscore. It returns 0 if the name has no
// such suffix.
func ProgramCounter(name string) int {
	i := strings.LastIndex(name, "_")
	if i < 0 {
		return 0
	}
	pc, err := strconv.Atoi(name[i+1:])
	if err != nil || pc < 0 {
		return 0
	}
	return pc
}

// Collect returns the declarations and implications of a set of ground rules.
func Collect(rules []*ir.Rule, opts ...Option) (*Program, error) {
	c := &collector{
		sortByPC:  true,
		relations: ordered.NewMap[string, *Relation](),
		pool:      NewVarPool(),
		names:     uname.New(),
		prog:      &Program{},
	}
	for _, opt := range opts {
		opt(c)
	}
	app := &fmterr.Appender{}
	for _, r := range rules {
		app.Push(fmterr.PrefixWith("%s %s: ", r.Kind, r.Name))
		app.Append(c.rule(r))
		app.Pop()
	}
	if err := app.ToError(); err != nil {
		return nil, err
	}
	c.prog.Relations = slices.Collect(c.relations.Values())
	c.prog.Vars = c.pool.Vars()
	if c.sortByPC {
		slices.SortStableFunc(c.prog.Relations, func(a, b *Relation) int {
			return cmp.Compare(a.PC, b.PC)
		})
		slices.SortStableFunc(c.prog.Implications, func(a, b *Implication) int {
			return cmp.Compare(a.PC, b.PC)
		})
	}
	return c.prog, nil
}

func (c *collector) rule(r *ir.Rule) error {
	if !r.IsGround() {
		return fmterr.Internalf("rule has not been instantiated")
	}
	queried := make(map[string]bool)
	for i, clause := range r.Clauses {
		impl, err := c.implication(ClauseRef{Rule: r, Index: i})
		if err != nil {
			return err
		}
		c.prog.Implications = append(c.prog.Implications, impl)
		if !r.IsQuery() {
			continue
		}
		name := clause.Conclusion.Pred.Name
		if queried[name] {
			continue
		}
		queried[name] = true
		rel, _ := c.relations.Load(name)
		c.prog.Queries = append(c.prog.Queries, &Query{Rule: r, Relation: rel})
	}
	return nil
}

func (c *collector) relation(p *ir.PredicateProp) error {
	if p.Pred.IsParametric() || len(p.Params) > 0 {
		return fmterr.Internalf("predicate %s has parameters: it should have been instantiated", p.Pred.Name)
	}
	for _, tp := range p.Pred.ArgTypes {
		if !ir.IsPrimitive(tp) {
			return fmterr.Internalf("predicate %s has an argument of type %s: it should have been flattened", p.Pred.Name, tp)
		}
	}
	if !c.relations.Has(p.Pred.Name) {
		c.relations.Store(p.Pred.Name, &Relation{Pred: p.Pred, PC: ProgramCounter(p.Pred.Name)})
	}
	return nil
}

func (c *collector) implication(ref ClauseRef) (*Implication, error) {
	clause := ref.Rule.Clauses[ref.Index]
	for pp := range clause.Atoms() {
		if err := c.relation(pp); err != nil {
			return nil, err
		}
	}
	scope := c.pool.Scope()
	subst := make(map[string]ir.Expr, clause.FreeVars.Size())
	for name, tp := range clause.FreeVars.Iter() {
		v, err := scope.Var(tp)
		if err != nil {
			return nil, err
		}
		subst[name] = &ir.FreeVarExpr{Name: v.Name, Typ: v.Type}
	}
	renamed, err := rewrite.NewClauses(rewrite.NewProps(rewrite.SubstFreeVars(subst), nil), nil).Structural(clause)
	if err != nil {
		return nil, err
	}
	return &Implication{
		Ref:    ref,
		Name:   c.names.Name(ref.Rule.Name),
		Clause: renamed,
		PC:     ProgramCounter(clause.Conclusion.Pred.Name),
	}, nil
}
