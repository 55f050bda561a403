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

// Package instantiate expands parametric rules into ground rules.
//
// A rule is parameterised by a compound invocation of selector functions.
// Every point of the domain of the invocation generates a ground rule where
// the parameters have been replaced by their value. Predicates with
// parameters generate one ground predicate per value of their parameters.
package instantiate

import (
	"fmt"
	"iter"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/base/ordered"
	"github.com/SecPriv/EtherTrust-sub001/build/eval"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

// Separator joins a name and the values of its parameters.
const Separator = "_"

type (
	// Instantiator instantiates rules.
	Instantiator struct {
		ev            *eval.Evaluator
		bitwise       eval.Bitwise
		log           logr.Logger
		maxDomainSize int
		preds         *ordered.Map[string, *ir.Predicate]
	}

	// Option configures an instantiator.
	Option func(*Instantiator)
)

// WithLogger sets the logger. Selector invocations are logged at V(2).
func WithLogger(log logr.Logger) Option {
	return func(inst *Instantiator) {
		inst.log = log
	}
}

// WithMaxDomainSize aborts the instantiation of a rule (or the expansion of a sum)
// when its domain has more than n points. 0 means unbounded.
func WithMaxDomainSize(n int) Option {
	return func(inst *Instantiator) {
		inst.maxDomainSize = n
	}
}

// WithBitwise sets the evaluator of bitwise operators used to compute parameter values.
func WithBitwise(b eval.Bitwise) Option {
	return func(inst *Instantiator) {
		inst.bitwise = b
	}
}

// New returns an instantiator calling selector functions from a domain.
func New(domain eval.Domain, opts ...Option) *Instantiator {
	inst := &Instantiator{
		bitwise: eval.NewFixedWidth(eval.DefaultBitwidth),
		log:     logr.Discard(),
		preds:   ordered.NewMap[string, *ir.Predicate](),
	}
	for _, opt := range opts {
		opt(inst)
	}
	inst.ev = eval.New(
		eval.WithDomain(&loggedDomain{domain: domain, log: inst.log}),
		eval.WithBitwise(inst.bitwise),
	)
	return inst
}

// Predicates returns the ground predicates generated so far, in order of creation.
func (inst *Instantiator) Predicates() *ordered.Map[string, *ir.Predicate] {
	return inst.preds
}

// Rules returns the instantiator as a rule rewriter.
func (inst *Instantiator) Rules() *rewrite.Rules {
	return rewrite.NewRules(nil, func(_ *rewrite.Rules, r *ir.Rule) ([]*ir.Rule, bool, error) {
		rules, err := inst.Rule(r)
		return rules, true, err
	})
}

// Rule returns the ground rules of a rule, one for every point of its domain.
func (inst *Instantiator) Rule(r *ir.Rule) ([]*ir.Rule, error) {
	var rules []*ir.Rule
	for g, err := range inst.Seq(r) {
		if err != nil {
			return nil, err
		}
		rules = append(rules, g)
	}
	return rules, nil
}

// Seq iterates over the ground rules of a rule.
// Selector functions are called as the sequence is consumed,
// so that rules with an unbounded domain can be instantiated partially.
func (inst *Instantiator) Seq(r *ir.Rule) iter.Seq2[*ir.Rule, error] {
	return func(yield func(*ir.Rule, error) bool) {
		if r.Invocation.IsUnit() {
			yield(inst.ground(r, nil, nil))
			return
		}
		binds := r.Invocation.Binds()
		count := 0
		for point, err := range inst.ev.Points(eval.NewEnv(), r.Invocation) {
			if err != nil {
				yield(nil, err)
				return
			}
			count++
			if inst.maxDomainSize > 0 && count > inst.maxDomainSize {
				yield(nil, errors.Errorf("rule %s: domain has more than %d points", r.Name, inst.maxDomainSize))
				return
			}
			parVars := point.ParVars()
			values := make([]ir.Value, len(binds))
			for i, bind := range binds {
				values[i] = parVars[bind.Name]
			}
			g, err := inst.ground(r, binds, values)
			if !yield(g, err) || err != nil {
				return
			}
		}
	}
}

// Name returns a name suffixed with the values of parameters.
func Name(name string, values []ir.Value) string {
	var s strings.Builder
	s.WriteString(name)
	for _, val := range values {
		s.WriteString(Separator)
		s.WriteString(val.String())
	}
	return s.String()
}

func (inst *Instantiator) ground(r *ir.Rule, binds []*ir.ParVarExpr, values []ir.Value) (*ir.Rule, error) {
	subst := make(map[string]ir.Expr, len(binds))
	for i, bind := range binds {
		subst[bind.Name] = ir.Literal(values[i])
	}
	clauses := rewrite.NewClauses(rewrite.NewProps(rewrite.SubstParVars(subst), inst.groundPredicate), nil)
	grounded, changed, err := clauses.RewriteAll(r.Clauses)
	if err != nil {
		return nil, err
	}
	if !changed && r.Invocation.IsUnit() {
		return r, nil
	}
	return &ir.Rule{
		Name:       Name(r.Name, values),
		Invocation: ir.Unit(),
		Clauses:    grounded,
		Kind:       r.Kind,
		Expect:     r.Expect,
	}, nil
}

// groundPredicate replaces the application of a predicate with parameters
// by the application of the ground predicate for the values of the parameters.
func (inst *Instantiator) groundPredicate(rw *rewrite.Props, p ir.Proposition) (ir.Proposition, bool, error) {
	app, ok := p.(*ir.PredicateProp)
	if !ok || len(app.Params) == 0 {
		return nil, false, nil
	}
	res, err := rw.Structural(app)
	if err != nil {
		return nil, false, err
	}
	app = res.(*ir.PredicateProp)
	values := make([]ir.Value, len(app.Params))
	for i, param := range app.Params {
		if values[i], err = inst.ev.Eval(eval.NewEnv(), param); err != nil {
			return nil, false, fmterr.Internalf("parameter %s of %s is not a constant: %v", param, app, err)
		}
	}
	pred, err := inst.predicate(app.Pred, values)
	if err != nil {
		return nil, false, err
	}
	return &ir.PredicateProp{Pred: pred, Args: app.Args}, true, nil
}

func (inst *Instantiator) predicate(template *ir.Predicate, values []ir.Value) (*ir.Predicate, error) {
	name := Name(template.Name, values)
	if pred, ok := inst.preds.Load(name); ok {
		if len(pred.ArgTypes) != len(template.ArgTypes) {
			return nil, fmterr.Internalf("ground predicate %s generated from %s and from another predicate", name, template)
		}
		return pred, nil
	}
	pred := &ir.Predicate{Name: name, ArgTypes: template.ArgTypes}
	inst.preds.Store(name, pred)
	return pred, nil
}

type loggedDomain struct {
	domain eval.Domain
	log    logr.Logger
}

func (d *loggedDomain) Invoke(fn *ir.SelectorFunction, args []ir.Value) iter.Seq2[[]ir.Value, error] {
	d.log.V(2).Info("invoke selector function", "signature", fn.Signature(), "args", fmt.Sprint(args))
	return d.domain.Invoke(fn, args)
}
