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

package api_test

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/require"

	"github.com/SecPriv/EtherTrust-sub001/api"
	"github.com/SecPriv/EtherTrust-sub001/api/options"
	"github.com/SecPriv/EtherTrust-sub001/api/tracer"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	ih "github.com/SecPriv/EtherTrust-sub001/build/ir/irhelper"
	"github.com/SecPriv/EtherTrust-sub001/build/selector"
	"github.com/SecPriv/EtherTrust-sub001/emit/fixedpoint"
)

var (
	intT   = ir.Int()
	none   = ih.Constructor("None")
	some   = ih.Constructor("Some", intT)
	option = ir.NewCustomType("Option", none, some)
)

// counter is a program counting from 0 to 3 in an optional integer.
func counter() *ir.Program {
	v := ih.Var("v", intT)
	inc := ih.Operation("inc", intT, ih.Add(v, ih.Int(1)), v)
	st := ih.Predicate("St", []ir.Type{intT}, option)
	goal := ih.Predicate("Goal", nil)
	o := ih.FreeVar("o", option)
	i := ih.ParVar("i", intT)
	init := ih.Rule("init", nil, ih.Clause(ih.Apply(st, []ir.Expr{ih.Int(0)}, ih.Ctor(some, ih.Int(0)))))
	step := ih.Rule("step", ih.Compound(ih.Invoke(selector.IntervalN, []*ir.ParVarExpr{i}, ih.Int(3))), ih.Clause(
		ih.Apply(st, []ir.Expr{ih.Add(i, ih.Int(1))}, ih.Match(o,
			ih.Branch(ih.Ctor(some, ih.App(inc, v)), ih.PValue(some, ih.Wildcard("v", intT))),
			ih.Branch(ih.Ctor(none), ih.Blank(option)),
		)),
		ih.Apply(st, []ir.Expr{i}, o),
	))
	reach := ih.Rule("reach", nil, ih.Clause(
		ih.Apply(goal, nil),
		ih.Apply(st, []ir.Expr{ih.Int(3)}, o),
		ih.Prop(ih.Eq(o, ih.Ctor(some, ih.Int(3)))),
	))
	reach.Kind = ir.TestRule
	reach.Expect = ir.ExpectSat
	return &ir.Program{
		Types:      []*ir.CustomType{option},
		Operations: []*ir.Operation{inc},
		Predicates: []*ir.Predicate{st, goal},
		Rules:      []*ir.Rule{init, step, reach},
	}
}

const counterText = `; format v1.0.0
(declare-rel St_0 (Int Int))
(declare-rel Goal ())
(declare-rel St_1 (Int Int))
(declare-rel St_2 (Int Int))
(declare-rel St_3 (Int Int))
(declare-var int_0 Int)
(declare-var int_1 Int)
(rule (St_0 1 0) init)
(rule (=> (and (St_3 int_0 int_1) (and (= int_0 1) (or (not (= int_0 1)) (= int_1 3)))) Goal) reach)
(rule (=> (St_0 int_0 int_1) (St_1 (ite (= int_0 1) 1 0) (ite (= int_0 1) (+ int_1 1) 0))) step_0)
(rule (=> (St_1 int_0 int_1) (St_2 (ite (= int_0 1) 1 0) (ite (= int_0 1) (+ int_1 1) 0))) step_1)
(rule (=> (St_2 int_0 int_1) (St_3 (ite (= int_0 1) 1 0) (ite (= int_0 1) (+ int_1 1) 0))) step_2)
(query Goal)
`

func TestLower(t *testing.T) {
	snapshots := tracer.NewSnapshots()
	var logs []string
	log := funcr.New(func(prefix, args string) {
		logs = append(logs, args)
	}, funcr.Options{Verbosity: 1})
	pipeline, err := api.New(selector.Builtins(), options.WithTrace(snapshots), options.WithLogger(log))
	require.NoError(t, err)
	lowered, err := pipeline.Lower(counter())
	require.NoError(t, err)

	require.Len(t, lowered.Rules, 5)
	require.Equal(t, []string{"St_0", "St_1", "St_2", "St_3"}, slices.Collect(lowered.Predicates.Keys()))
	require.Equal(t, []string{"inline", "instantiate", "fold-before", "layout", "sums", "fold-after", "prune"}, snapshots.Passes())
	require.Len(t, snapshots.Rules("instantiate"), 5)

	text, err := pipeline.Text(lowered)
	require.NoError(t, err)
	require.Equal(t, counterText, text)

	passLogs := 0
	for _, line := range logs {
		if strings.Contains(line, `"pass done"`) {
			passLogs++
		}
	}
	require.Equal(t, 7, passLogs)
}

func TestLoad(t *testing.T) {
	pipeline, err := api.New(selector.Builtins())
	require.NoError(t, err)
	lowered, err := pipeline.Lower(counter())
	require.NoError(t, err)
	rec := fixedpoint.NewRecorder()
	rec.Answers["Goal"] = fixedpoint.Satisfiable
	results, err := pipeline.Load(rec, lowered)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Failed())
	require.Equal(t, 5, rec.Rules.Size())
}

func TestOptionalPasses(t *testing.T) {
	snapshots := tracer.NewSnapshots()
	pipeline, err := api.New(selector.Builtins(),
		options.WithTrace(snapshots),
		options.WithFolding(false, true),
		options.WithPruneDeadClauses(false),
	)
	require.NoError(t, err)
	_, err = pipeline.Lower(counter())
	require.NoError(t, err)
	require.Equal(t, []string{"inline", "instantiate", "layout", "sums", "fold-after"}, snapshots.Passes())
}

// lastOption is a program whose conclusion is a sum over an optional accumulator.
func lastOption() *ir.Program {
	p := ih.Predicate("P", nil, option)
	j := ih.ParVar("j", intT)
	acc := ih.Var("acc", option)
	sum := ih.CustomSum(
		ih.Compound(ih.Invoke(selector.IntervalN, []*ir.ParVarExpr{j}, ih.Int(3))),
		acc, ih.Ctor(none),
		ih.Match(acc,
			ih.Branch(ih.Ctor(some, ih.Add(j, ih.Int(10))), ih.PValue(none)),
			ih.Branch(ih.Ctor(some, j), ih.Blank(option)),
		),
	)
	return &ir.Program{
		Types:      []*ir.CustomType{option},
		Predicates: []*ir.Predicate{p},
		Rules:      []*ir.Rule{ih.Rule("r", nil, ih.Clause(ih.Apply(p, nil, sum)))},
	}
}

func TestCustomSum(t *testing.T) {
	pipeline, err := api.New(selector.Builtins())
	require.NoError(t, err)
	lowered, err := pipeline.Lower(lastOption())
	require.NoError(t, err)
	require.Len(t, lowered.Rules, 1)
	require.Equal(t, "P(1, 2)", lowered.Rules[0].Clauses[0].Conclusion.String())

	text, err := pipeline.Text(lowered)
	require.NoError(t, err)
	require.Equal(t, "; format v1.0.0\n(declare-rel P (Int Int))\n(rule (P 1 2) r)\n", text)

	unfolded, err := api.New(selector.Builtins(), options.WithFolding(false, false), options.WithPruneDeadClauses(false))
	require.NoError(t, err)
	_, err = unfolded.Lower(lastOption())
	require.NoError(t, err)
}

func TestLowerErrors(t *testing.T) {
	pipeline, err := api.New(selector.Builtins(), options.WithMaxDomainSize(2))
	require.NoError(t, err)
	_, err = pipeline.Lower(counter())
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "instantiate pass: "), err.Error())
	require.Contains(t, err.Error(), "domain has more than 2 points")
	require.Contains(t, fmt.Sprintf("%+v", err), "Error generated at:")

	pipeline, err = api.New(selector.NewRegistry())
	require.NoError(t, err)
	_, err = pipeline.Lower(counter())
	require.Error(t, err)
	require.True(t, fmterr.IsInternal(err))
}
