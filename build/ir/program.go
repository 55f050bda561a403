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

// Program is a validated program produced by the front end.
type Program struct {
	Types      []*CustomType
	Operations []*Operation
	Predicates []*Predicate
	Rules      []*Rule
}

func (*Program) node() {}

// Predicate returns a predicate given its name or nil if not found.
func (p *Program) Predicate(name string) *Predicate {
	for _, pred := range p.Predicates {
		if pred.Name == name {
			return pred
		}
	}
	return nil
}

// Operation returns an operation given its name or nil if not found.
func (p *Program) Operation(name string) *Operation {
	for _, op := range p.Operations {
		if op.Name == name {
			return op
		}
	}
	return nil
}

// Constructor returns a constructor given its name or nil if not found.
// Constructor names are unique across all the custom types of a program.
func (p *Program) Constructor(name string) *Constructor {
	for _, tp := range p.Types {
		if ctor := tp.Constructor(name); ctor != nil {
			return ctor
		}
	}
	return nil
}

// WithRules returns a shallow copy of the program with a new list of rules.
func (p *Program) WithRules(rules []*Rule) *Program {
	return &Program{
		Types:      p.Types,
		Operations: p.Operations,
		Predicates: p.Predicates,
		Rules:      rules,
	}
}
