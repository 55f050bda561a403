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

package emit

import (
	"fmt"
	"slices"

	"github.com/SecPriv/EtherTrust-sub001/base/ordered"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

type (
	// VarPool declares the variables of the implications.
	//
	// A variable is named after its type and its index in the clause:
	// the first integer of a clause is int_0, the second int_1, and so on.
	// Clauses share the variables: the pool only declares the names
	// required by the clause with the most variables of every type.
	VarPool struct {
		vars *ordered.Map[string, *Var]
	}

	// VarScope allocates the variables of a single clause.
	VarScope struct {
		pool *VarPool
		next map[string]int
	}
)

// NewVarPool returns a new empty pool of variables.
func NewVarPool() *VarPool {
	return &VarPool{vars: ordered.NewMap[string, *Var]()}
}

// TypePrefix returns the prefix of the names of variables of a given type.
func TypePrefix(tp ir.Type) (string, error) {
	switch tpT := tp.(type) {
	case ir.IntType:
		return "int", nil
	case ir.BoolType:
		return "bool", nil
	case *ir.ArrayType:
		elem, err := TypePrefix(tpT.Elem)
		if err != nil {
			return "", err
		}
		return "arr_" + elem, nil
	}
	return "", fmterr.Internalf("no variable of type %s can be declared: type should have been flattened", tp)
}

// Scope returns a new scope where indices start from 0.
func (p *VarPool) Scope() *VarScope {
	return &VarScope{pool: p, next: make(map[string]int)}
}

// Vars returns the variables declared by the pool in the order of their declaration.
func (p *VarPool) Vars() []*Var {
	return slices.Collect(p.vars.Values())
}

// Var returns the next variable of a given type in the scope.
// The variable is declared in the pool if it has not been declared yet.
func (s *VarScope) Var(tp ir.Type) (*Var, error) {
	prefix, err := TypePrefix(tp)
	if err != nil {
		return nil, err
	}
	index := s.next[prefix]
	s.next[prefix] = index + 1
	name := fmt.Sprintf("%s_%d", prefix, index)
	if v, ok := s.pool.vars.Load(name); ok {
		return v, nil
	}
	v := &Var{Name: name, Type: tp}
	s.pool.vars.Store(name, v)
	return v, nil
}
