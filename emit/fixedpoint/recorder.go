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

package fixedpoint

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/base/ordered"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/emit"
)

// Recorder is an in-memory solver recording the calls it receives.
// Queries are answered from Answers, and Unknown if the relation is not in the map.
type Recorder struct {
	Answers map[string]Status

	Calls     []string
	Relations *ordered.Map[string, *emit.Relation]
	Vars      *ordered.Map[string, *emit.Var]
	Rules     *ordered.Map[string, *ir.Clause]
}

var _ Solver = (*Recorder)(nil)

// NewRecorder returns a new recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Answers:   make(map[string]Status),
		Relations: ordered.NewMap[string, *emit.Relation](),
		Vars:      ordered.NewMap[string, *emit.Var](),
		Rules:     ordered.NewMap[string, *ir.Clause](),
	}
}

// RegisterRelation declares a relation.
func (r *Recorder) RegisterRelation(rel *emit.Relation) error {
	if r.Relations.Has(rel.Pred.Name) {
		return errors.Errorf("relation %s already registered", rel.Pred.Name)
	}
	r.Relations.Store(rel.Pred.Name, rel)
	r.Calls = append(r.Calls, "RegisterRelation "+rel.Pred.String())
	return nil
}

// DeclareVar declares a variable.
func (r *Recorder) DeclareVar(v *emit.Var) error {
	if r.Vars.Has(v.Name) {
		return errors.Errorf("variable %s already declared", v.Name)
	}
	r.Vars.Store(v.Name, v)
	r.Calls = append(r.Calls, fmt.Sprintf("DeclareVar %s:%s", v.Name, v.Type))
	return nil
}

// AddRule adds a rule. All the relations and variables of the rule must have been declared.
func (r *Recorder) AddRule(c *ir.Clause, name string) error {
	for pp := range c.Atoms() {
		if !r.Relations.Has(pp.Pred.Name) {
			return errors.Errorf("relation %s has not been registered", pp.Pred.Name)
		}
	}
	for v := range c.FreeVars.Keys() {
		if !r.Vars.Has(v) {
			return errors.Errorf("variable %s has not been declared", v)
		}
	}
	r.Rules.Store(name, c)
	r.Calls = append(r.Calls, fmt.Sprintf("AddRule %s %s", name, c))
	return nil
}

// Query returns the answer registered for a relation.
func (r *Recorder) Query(rel *emit.Relation) (Status, error) {
	if !r.Relations.Has(rel.Pred.Name) {
		return Unknown, errors.Errorf("relation %s has not been registered", rel.Pred.Name)
	}
	r.Calls = append(r.Calls, "Query "+rel.Pred.Name)
	return r.Answers[rel.Pred.Name], nil
}
