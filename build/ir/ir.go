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

// Package ir is the intermediate representation of Horn rules.
//
// A program is made of predicates, algebraic types, operations (pure
// expression macros), and parameterized rules. Each rule is a family of
// clauses indexed by the points of a selector function domain. Lowering
// passes rewrite the tree until every rule is ground and every expression is
// typed with booleans, integers, or arrays only.
//
// All nodes are immutable once built: passes create new nodes and share the
// unchanged sub-trees of their input.
package ir

type (
	// Node in the tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()
	}

	// Expr is an expression computing a value of a statically known type.
	Expr interface {
		Node
		expr()

		// Type of the value computed by the expression.
		Type() Type

		// String representation of the expression.
		String() string
	}

	// Proposition is a premise or the conclusion of a clause.
	Proposition interface {
		Node
		proposition()

		// String representation of the proposition.
		String() string
	}

	// Pattern is matched against a value in a match expression.
	Pattern interface {
		Node
		pattern()

		// String representation of the pattern.
		String() string
	}

	// SumOperation folds the values computed over a selector domain.
	SumOperation interface {
		Node
		sumOperation()

		// String representation of the operation.
		String() string
	}
)
