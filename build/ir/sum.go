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

type (
	// BuiltinSum folds the values with an associative operator:
	// And, Or, Add, or Mul.
	BuiltinSum struct {
		Op BinaryOp
	}

	// CustomSum folds the domain with an accumulator.
	// The accumulator starts with Start. For every point of the domain,
	// the accumulator is replaced by the value of Body which can reference
	// the accumulator and the parameters bound by the invocation.
	CustomSum struct {
		Acc   *VarExpr
		Start Expr
		Body  Expr
	}

	// InlinedCustomSum is the specialisation of a custom sum for one primitive
	// component of its accumulator.
	//
	// All the components of the accumulator are folded jointly: for every
	// point, the accumulator i is replaced by Bodies[i] which can reference
	// all the accumulators. The value of the sum is the accumulator Leaf.
	InlinedCustomSum struct {
		Accs   []*VarExpr
		Starts []Expr
		Bodies []Expr
		Leaf   int
	}
)

var (
	_ SumOperation = (*BuiltinSum)(nil)
	_ SumOperation = (*CustomSum)(nil)
	_ SumOperation = (*InlinedCustomSum)(nil)
)

func (*BuiltinSum) node()         {}
func (*BuiltinSum) sumOperation() {}

// Identity returns the neutral element of the operator.
func (s *BuiltinSum) Identity() Expr {
	switch s.Op {
	case And:
		return BoolLiteral(true)
	case Or:
		return BoolLiteral(false)
	case Mul:
		return IntLiteral(1)
	}
	return IntLiteral(0)
}

func (*CustomSum) node()         {}
func (*CustomSum) sumOperation() {}

func (*InlinedCustomSum) node()         {}
func (*InlinedCustomSum) sumOperation() {}
