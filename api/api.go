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

// Package api lowers programs into ground Horn clauses.
//
// The pipeline runs the following passes in order:
//
//	inline       replaces operation applications by their body
//	instantiate  expands parametric rules into ground rules
//	fold-before  folds constants (optional)
//	layout       flattens custom types and compiles match expressions
//	sums         expands sums over the domain of their selector functions
//	fold-after   folds constants (optional)
//	prune        removes clauses with a false premise (optional)
//
// Sums are expanded after the layout so that a sum over a custom
// accumulator has been split into one sum per leaf.
//
// The ground rules are then collected into declarations and implications
// which can be written as text or loaded into a fixed-point solver.
package api

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/api/options"
	"github.com/SecPriv/EtherTrust-sub001/base/ordered"
	"github.com/SecPriv/EtherTrust-sub001/build/eval"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
	"github.com/SecPriv/EtherTrust-sub001/build/lower/constfold"
	"github.com/SecPriv/EtherTrust-sub001/build/lower/inline"
	"github.com/SecPriv/EtherTrust-sub001/build/lower/instantiate"
	"github.com/SecPriv/EtherTrust-sub001/build/lower/layout"
	"github.com/SecPriv/EtherTrust-sub001/emit"
	"github.com/SecPriv/EtherTrust-sub001/emit/fixedpoint"
	"github.com/SecPriv/EtherTrust-sub001/emit/horntext"
)

type (
	// Pipeline lowers programs given selector functions and a configuration.
	Pipeline struct {
		cfg    *options.Config
		domain eval.Domain
	}

	// Lowered is a program lowered into ground Horn clauses.
	Lowered struct {
		// Rules are the ground and flattened rules.
		Rules []*ir.Rule
		// Predicates are the ground predicates generated by the instantiation,
		// before the layout of custom types.
		Predicates *ordered.Map[string, *ir.Predicate]
		// Program are the declarations and implications to emit.
		Program *emit.Program
	}

	pass struct {
		name string
		rw   *rewrite.Rules
	}
)

// New returns a pipeline invoking selector functions from a domain.
func New(domain eval.Domain, opts ...options.Option) (*Pipeline, error) {
	cfg, err := options.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, domain: domain}, nil
}

// NewWithConfig returns a pipeline given a configuration.
func NewWithConfig(domain eval.Domain, cfg *options.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, domain: domain}, nil
}

// Config returns the configuration of the pipeline.
func (p *Pipeline) Config() *options.Config {
	return p.cfg
}

func (p *Pipeline) log() logr.Logger {
	return p.cfg.Logger
}

func (p *Pipeline) passes(prog *ir.Program) (*instantiate.Instantiator, []pass) {
	bitwise := eval.NewFixedWidth(uint(p.cfg.Bitwidth))
	ev := eval.New(eval.WithBitwise(bitwise), eval.WithDomain(p.domain))
	inst := instantiate.New(p.domain,
		instantiate.WithLogger(p.log()),
		instantiate.WithMaxDomainSize(p.cfg.MaxDomainSize),
		instantiate.WithBitwise(bitwise),
	)
	passes := []pass{
		{name: "inline", rw: inline.New(prog.Operations).Rules()},
		{name: "instantiate", rw: inst.Rules()},
	}
	if p.cfg.FoldBefore {
		passes = append(passes, pass{name: "fold-before", rw: constfold.New(ev, constfold.WithCustomTypes()).Rules()})
	}
	passes = append(passes,
		pass{name: "layout", rw: layout.New().Rules()},
		pass{name: "sums", rw: inst.ExpandSums()},
	)
	if p.cfg.FoldAfter {
		passes = append(passes, pass{name: "fold-after", rw: constfold.New(ev).Rules()})
	}
	if p.cfg.PruneDeadClauses {
		passes = append(passes, pass{name: "prune", rw: constfold.PruneDeadClauses()})
	}
	return inst, passes
}

func countClauses(rules []*ir.Rule) int {
	n := 0
	for _, r := range rules {
		n += len(r.Clauses)
	}
	return n
}

// Lower a program into ground Horn clauses.
func (p *Pipeline) Lower(prog *ir.Program) (_ *Lowered, err error) {
	defer func() {
		err = fmterr.ToStackTraceError(err)
	}()
	inst, passes := p.passes(prog)
	rules := prog.Rules
	for _, ps := range passes {
		in := len(rules)
		if rules, err = ps.rw.RewriteAll(rules); err != nil {
			return nil, errors.Wrapf(err, "%s pass", ps.name)
		}
		p.log().V(1).Info("pass done", "pass", ps.name, "rulesIn", in, "rulesOut", len(rules), "clauses", countClauses(rules))
		if p.cfg.Trace == nil {
			continue
		}
		if err = p.cfg.Trace.Trace(ps.name, rules); err != nil {
			return nil, errors.Wrapf(err, "%s pass trace", ps.name)
		}
	}
	p.log().V(1).Info("ground predicates", "count", inst.Predicates().Size())
	emitted, err := emit.Collect(rules, emit.SortByProgramCounter(p.cfg.SortByProgramCounter))
	if err != nil {
		return nil, err
	}
	p.log().V(1).Info("collected", "relations", len(emitted.Relations), "vars", len(emitted.Vars), "implications", len(emitted.Implications), "queries", len(emitted.Queries))
	return &Lowered{Rules: rules, Predicates: inst.Predicates(), Program: emitted}, nil
}

// WriteText writes a lowered program in the fixed-point text format.
func (p *Pipeline) WriteText(w io.Writer, l *Lowered) error {
	return horntext.Write(w, l.Program,
		horntext.WithVersion(p.cfg.FormatVersion),
		horntext.WithBitwidth(uint(p.cfg.Bitwidth)),
	)
}

// Text returns a lowered program in the fixed-point text format.
func (p *Pipeline) Text(l *Lowered) (string, error) {
	return horntext.String(l.Program,
		horntext.WithVersion(p.cfg.FormatVersion),
		horntext.WithBitwidth(uint(p.cfg.Bitwidth)),
	)
}

// Load a lowered program into a fixed-point solver and run its queries.
// Failed tests are logged.
func (p *Pipeline) Load(s fixedpoint.Solver, l *Lowered) ([]*fixedpoint.Result, error) {
	results, err := fixedpoint.Load(s, l.Program)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		if res.Failed() {
			p.log().Info("test failed", "rule", res.Query.Rule.Name, "got", res.Status.String(), "want", res.Expect().String())
		}
	}
	return results, nil
}
