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

// Package horntext writes a lowered program in the fixed-point text format
// of the Z3 solver.
//
// The output starts with a comment stating the version of the format,
// followed by the declarations of the relations and of the variables,
// the rules, and the queries:
//
//	; format v1.0.0
//	(declare-rel Oo_1 (Int Int))
//	(declare-var int_0 Int)
//	(rule (=> (and (Oo_0 int_0 int_1) (> int_0 0)) (Oo_1 int_0 int_1)) step_0)
//	(query Err)
package horntext

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"

	"github.com/SecPriv/EtherTrust-sub001/build/eval"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/emit"
)

// DefaultVersion is the version of the format written by default.
const DefaultVersion = "v1.0.0"

type (
	// Option configures the writer.
	Option func(*writer)

	writer struct {
		version  string
		bitwidth uint
	}
)

// WithVersion sets the version written in the header.
func WithVersion(version string) Option {
	return func(w *writer) {
		w.version = version
	}
}

// WithBitwidth sets the width of the bit-vectors used to compute bitwise operators.
func WithBitwidth(width uint) Option {
	return func(w *writer) {
		w.bitwidth = width
	}
}

// Write a program in the text format.
func Write(out io.Writer, prog *emit.Program, opts ...Option) error {
	w := &writer{version: DefaultVersion, bitwidth: eval.DefaultBitwidth}
	for _, opt := range opts {
		opt(w)
	}
	if !semver.IsValid(w.version) || semver.Major(w.version) != "v1" {
		return errors.Errorf("format version %q not supported", w.version)
	}
	lines, err := w.lines(prog)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(out)
	for _, line := range lines {
		if _, err := buf.WriteString(line + "\n"); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(buf.Flush())
}

// String returns a program in the text format.
func String(prog *emit.Program, opts ...Option) (string, error) {
	var s strings.Builder
	if err := Write(&s, prog, opts...); err != nil {
		return "", err
	}
	return s.String(), nil
}

func (w *writer) lines(prog *emit.Program) ([]string, error) {
	lines := []string{"; format " + w.version}
	for _, rel := range prog.Relations {
		sorts, err := sorts(rel.Pred.ArgTypes)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("(declare-rel %s (%s))", rel.Pred.Name, strings.Join(sorts, " ")))
	}
	for _, v := range prog.Vars {
		s, err := sort(v.Type)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("(declare-var %s %s)", v.Name, s))
	}
	app := &fmterr.Appender{}
	for _, impl := range prog.Implications {
		app.Push(fmterr.PrefixWith("clause %d of %s %s: ", impl.Ref.Index, impl.Ref.Rule.Kind, impl.Ref.Rule.Name))
		rule, err := w.rule(impl)
		if app.Append(err) {
			lines = append(lines, rule)
		}
		app.Pop()
	}
	if err := app.ToError(); err != nil {
		return nil, err
	}
	for _, q := range prog.Queries {
		lines = append(lines, fmt.Sprintf("(query %s)", q.Relation.Pred.Name))
	}
	return lines, nil
}

func sort(tp ir.Type) (string, error) {
	switch tpT := tp.(type) {
	case ir.IntType:
		return "Int", nil
	case ir.BoolType:
		return "Bool", nil
	case *ir.ArrayType:
		elem, err := sort(tpT.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(Array Int %s)", elem), nil
	}
	return "", fmterr.Internalf("type %s has no sort: it should have been flattened", tp)
}

func sorts(tps []ir.Type) ([]string, error) {
	res := make([]string, len(tps))
	for i, tp := range tps {
		var err error
		if res[i], err = sort(tp); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (w *writer) rule(impl *emit.Implication) (string, error) {
	conclusion, err := w.atom(impl.Clause.Conclusion)
	if err != nil {
		return "", err
	}
	if len(impl.Clause.Premises) == 0 {
		return fmt.Sprintf("(rule %s %s)", conclusion, impl.Name), nil
	}
	premises := make([]string, len(impl.Clause.Premises))
	for i, p := range impl.Clause.Premises {
		if premises[i], err = w.proposition(p); err != nil {
			return "", err
		}
	}
	body := premises[0]
	if len(premises) > 1 {
		body = fmt.Sprintf("(and %s)", strings.Join(premises, " "))
	}
	return fmt.Sprintf("(rule (=> %s %s) %s)", body, conclusion, impl.Name), nil
}

func (w *writer) proposition(p ir.Proposition) (string, error) {
	switch pT := p.(type) {
	case *ir.PredicateProp:
		return w.atom(pT)
	case *ir.ExprProp:
		return w.term(pT.X)
	}
	return "", fmterr.Internalf("proposition %T not supported", p)
}

func (w *writer) atom(p *ir.PredicateProp) (string, error) {
	if len(p.Params) > 0 {
		return "", fmterr.Internalf("%s has parameters: it should have been instantiated", p)
	}
	if len(p.Args) == 0 {
		return p.Pred.Name, nil
	}
	args, err := w.terms(p.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s)", p.Pred.Name, strings.Join(args, " ")), nil
}
