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

package eval

import (
	"maps"

	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// Env binds variables to values.
// An environment is never modified once built: binding a variable returns a new environment.
type Env struct {
	vars     map[string]ir.Value
	parVars  map[string]ir.Value
	freeVars map[string]ir.Value
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{}
}

func bind(m map[string]ir.Value, name string, val ir.Value) map[string]ir.Value {
	m = maps.Clone(m)
	if m == nil {
		m = make(map[string]ir.Value)
	}
	m[name] = val
	return m
}

// WithVar returns an environment where a local variable is bound to a value.
func (env *Env) WithVar(name string, val ir.Value) *Env {
	res := *env
	res.vars = bind(env.vars, name, val)
	return &res
}

// WithParVar returns an environment where a parameter is bound to a value.
func (env *Env) WithParVar(name string, val ir.Value) *Env {
	res := *env
	res.parVars = bind(env.parVars, name, val)
	return &res
}

// WithFreeVar returns an environment where a free variable is bound to a value.
func (env *Env) WithFreeVar(name string, val ir.Value) *Env {
	res := *env
	res.freeVars = bind(env.freeVars, name, val)
	return &res
}

// ParVars returns the values bound to parameters.
func (env *Env) ParVars() map[string]ir.Value {
	return maps.Clone(env.parVars)
}

func (env *Env) lookup(x ir.Expr) (ir.Value, bool) {
	var val ir.Value
	switch xT := x.(type) {
	case *ir.VarExpr:
		val = env.vars[xT.Name]
	case *ir.ParVarExpr:
		val = env.parVars[xT.Name]
	case *ir.FreeVarExpr:
		val = env.freeVars[xT.Name]
	}
	return val, val != nil
}
