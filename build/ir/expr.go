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

import (
	"math/big"
)

// BinaryOp is a binary operator.
type BinaryOp int

const (
	// Add is the integer addition.
	Add BinaryOp = iota
	// Sub is the integer subtraction.
	Sub
	// Mul is the integer multiplication.
	Mul
	// Div is the Euclidean integer division.
	Div
	// Mod is the Euclidean integer modulo.
	Mod
	// BitAnd is the fixed-width bitwise and.
	BitAnd
	// BitOr is the fixed-width bitwise or.
	BitOr
	// BitXor is the fixed-width bitwise exclusive or.
	BitXor
	// And is the boolean conjunction.
	And
	// Or is the boolean disjunction.
	Or
	// Eq is the equality of two values of the same type.
	Eq
	// Neq is the disequality of two values of the same type.
	Neq
	// Lt is the integer comparison <.
	Lt
	// Le is the integer comparison <=.
	Le
	// Gt is the integer comparison >.
	Gt
	// Ge is the integer comparison >=.
	Ge
)

var binaryOpStrings = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	BitAnd: "&", BitOr: "|", BitXor: "^",
	And: "&&", Or: "||",
	Eq: "==", Neq: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpStrings) {
		return binaryOpStrings[op]
	}
	return "?"
}

// IsArithmetic returns true for operators computing an integer from two integers.
func (op BinaryOp) IsArithmetic() bool {
	return op <= BitXor
}

// IsLogical returns true for operators computing a boolean from two booleans.
func (op BinaryOp) IsLogical() bool {
	return op == And || op == Or
}

// IsComparison returns true for operators computing a boolean from two values.
func (op BinaryOp) IsComparison() bool {
	return op >= Eq
}

// UnaryOp is a unary operator.
type UnaryOp int

const (
	// Not is the boolean negation.
	Not UnaryOp = iota
	// Neg is the arithmetic negation.
	Neg
	// BitNot is the fixed-width bitwise negation.
	BitNot
)

func (op UnaryOp) String() string {
	switch op {
	case Not:
		return "not "
	case Neg:
		return "-"
	case BitNot:
		return "~"
	}
	return "?"
}

type (
	// IntLit is an integer literal.
	IntLit struct {
		Val *big.Int
	}

	// BoolLit is a boolean literal.
	BoolLit struct {
		Val bool
	}

	// ArrayLit is a constant array where every element is Init.
	ArrayLit struct {
		Elem Type
		Init Expr
	}

	// VarExpr is a local variable bound by a match pattern, an operation
	// parameter or argument, or the accumulator of a custom sum.
	VarExpr struct {
		Name string
		Typ  Type
	}

	// FreeVarExpr is a universally quantified variable of a clause.
	FreeVarExpr struct {
		Name string
		Typ  Type
	}

	// ParVarExpr is a compile-time parameter bound by a selector function invocation.
	ParVarExpr struct {
		Name string
		Typ  Type
	}

	// BinaryExpr applies a binary operator.
	BinaryExpr struct {
		Op   BinaryOp
		X, Y Expr
	}

	// UnaryExpr applies a unary operator.
	UnaryExpr struct {
		Op UnaryOp
		X  Expr
	}

	// SelectExpr reads an element of an array.
	SelectExpr struct {
		Array Expr
		Index Expr
	}

	// StoreExpr returns a copy of an array where an element has been replaced.
	StoreExpr struct {
		Array Expr
		Index Expr
		Value Expr
	}

	// CondExpr is the ternary conditional.
	CondExpr struct {
		Cond Expr
		Then Expr
		Else Expr
	}

	// AppExpr applies an operation.
	AppExpr struct {
		Op     *Operation
		Params []Expr
		Args   []Expr
	}

	// ConstructorAppExpr builds a value of a custom type.
	ConstructorAppExpr struct {
		Ctor *Constructor
		Args []Expr
	}

	// MatchExpr selects the result of the first branch for which
	// every pattern matches its scrutinee.
	// The last branch is taken when no other branch matches.
	MatchExpr struct {
		Scrutinees []Expr
		Branches   []*MatchBranch
		Typ        Type
	}

	// MatchBranch is a branch of a match expression.
	// There is one pattern per scrutinee.
	MatchBranch struct {
		Patterns []Pattern
		Result   Expr
	}

	// ConstExpr references a named constant.
	ConstExpr struct {
		Name  string
		Value Expr
	}

	// SumExpr folds a body over the points of a selector function domain.
	// The parameters bound by the invocation can be referenced in the body.
	SumExpr struct {
		Invocation *CompoundInvocation
		Op         SumOperation
		// Body computed for every point of the domain.
		// Body is nil for custom sum operations which carry their own body.
		Body Expr
	}
)

var (
	_ Expr = (*IntLit)(nil)
	_ Expr = (*BoolLit)(nil)
	_ Expr = (*ArrayLit)(nil)
	_ Expr = (*VarExpr)(nil)
	_ Expr = (*FreeVarExpr)(nil)
	_ Expr = (*ParVarExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*SelectExpr)(nil)
	_ Expr = (*StoreExpr)(nil)
	_ Expr = (*CondExpr)(nil)
	_ Expr = (*AppExpr)(nil)
	_ Expr = (*ConstructorAppExpr)(nil)
	_ Expr = (*MatchExpr)(nil)
	_ Expr = (*ConstExpr)(nil)
	_ Expr = (*SumExpr)(nil)
)

func (*IntLit) node() {}
func (*IntLit) expr() {}

// Type of the expression.
func (*IntLit) Type() Type { return Int() }

func (*BoolLit) node() {}
func (*BoolLit) expr() {}

// Type of the expression.
func (*BoolLit) Type() Type { return Bool() }

func (*ArrayLit) node() {}
func (*ArrayLit) expr() {}

// Type of the expression.
func (x *ArrayLit) Type() Type { return Array(x.Elem) }

func (*VarExpr) node() {}
func (*VarExpr) expr() {}

// Type of the expression.
func (x *VarExpr) Type() Type { return x.Typ }

func (*FreeVarExpr) node() {}
func (*FreeVarExpr) expr() {}

// Type of the expression.
func (x *FreeVarExpr) Type() Type { return x.Typ }

func (*ParVarExpr) node() {}
func (*ParVarExpr) expr() {}

// Type of the expression.
func (x *ParVarExpr) Type() Type { return x.Typ }

func (*BinaryExpr) node() {}
func (*BinaryExpr) expr() {}

// Type of the expression.
func (x *BinaryExpr) Type() Type {
	if x.Op.IsArithmetic() {
		return Int()
	}
	return Bool()
}

func (*UnaryExpr) node() {}
func (*UnaryExpr) expr() {}

// Type of the expression.
func (x *UnaryExpr) Type() Type {
	if x.Op == Not {
		return Bool()
	}
	return Int()
}

func (*SelectExpr) node() {}
func (*SelectExpr) expr() {}

// Type of the expression.
func (x *SelectExpr) Type() Type {
	arrayType, ok := x.Array.Type().(*ArrayType)
	if !ok {
		return nil
	}
	return arrayType.Elem
}

func (*StoreExpr) node() {}
func (*StoreExpr) expr() {}

// Type of the expression.
func (x *StoreExpr) Type() Type { return x.Array.Type() }

func (*CondExpr) node() {}
func (*CondExpr) expr() {}

// Type of the expression.
func (x *CondExpr) Type() Type { return x.Then.Type() }

func (*AppExpr) node() {}
func (*AppExpr) expr() {}

// Type of the expression.
func (x *AppExpr) Type() Type { return x.Op.Result }

func (*ConstructorAppExpr) node() {}
func (*ConstructorAppExpr) expr() {}

// Type of the expression.
func (x *ConstructorAppExpr) Type() Type { return x.Ctor.Type }

func (*MatchExpr) node() {}
func (*MatchExpr) expr() {}

// Type of the expression.
func (x *MatchExpr) Type() Type { return x.Typ }

func (*MatchBranch) node() {}

func (*ConstExpr) node() {}
func (*ConstExpr) expr() {}

// Type of the expression.
func (x *ConstExpr) Type() Type { return x.Value.Type() }

func (*SumExpr) node() {}
func (*SumExpr) expr() {}

// Type of the expression.
func (x *SumExpr) Type() Type {
	switch opT := x.Op.(type) {
	case *CustomSum:
		return opT.Acc.Typ
	case *InlinedCustomSum:
		return opT.Accs[opT.Leaf].Typ
	}
	return x.Body.Type()
}

// IntLiteral returns an integer literal.
func IntLiteral(x int64) *IntLit {
	return &IntLit{Val: big.NewInt(x)}
}

// BoolLiteral returns a boolean literal.
func BoolLiteral(x bool) *BoolLit {
	return &BoolLit{Val: x}
}

// Literal converts a value into an expression.
// An array with overridden entries is represented by a chain of store expressions
// on top of an array literal.
func Literal(v Value) Expr {
	switch vT := v.(type) {
	case *IntValue:
		return &IntLit{Val: vT.Val}
	case *BoolValue:
		return &BoolLit{Val: vT.Val}
	case *ArrayValue:
		var x Expr = &ArrayLit{Elem: vT.Elem, Init: Literal(vT.Init)}
		for _, entry := range vT.Overrides() {
			x = &StoreExpr{Array: x, Index: &IntLit{Val: entry.Index}, Value: Literal(entry.Val)}
		}
		return x
	case *CustomValue:
		args := make([]Expr, len(vT.Fields))
		for i, field := range vT.Fields {
			args[i] = Literal(field)
		}
		return &ConstructorAppExpr{Ctor: vT.Ctor, Args: args}
	}
	return nil
}

// IsLiteral returns true if an expression is the literal representation of a value,
// as built by Literal.
func IsLiteral(x Expr) bool {
	switch xT := x.(type) {
	case *IntLit, *BoolLit:
		return true
	case *ArrayLit:
		return IsLiteral(xT.Init)
	case *StoreExpr:
		_, isInt := xT.Index.(*IntLit)
		return isInt && IsLiteral(xT.Array) && IsLiteral(xT.Value)
	}
	return false
}

// ValueOf returns the value represented by a literal expression.
// It returns nil if the expression is not a literal.
func ValueOf(x Expr) Value {
	switch xT := x.(type) {
	case *IntLit:
		return &IntValue{Val: xT.Val}
	case *BoolLit:
		return &BoolValue{Val: xT.Val}
	case *ArrayLit:
		init := ValueOf(xT.Init)
		if init == nil {
			return nil
		}
		return NewArrayValue(xT.Elem, init)
	case *StoreExpr:
		array, ok := ValueOf(xT.Array).(*ArrayValue)
		if !ok {
			return nil
		}
		index, ok := xT.Index.(*IntLit)
		if !ok {
			return nil
		}
		val := ValueOf(xT.Value)
		if val == nil {
			return nil
		}
		return array.Store(index.Val, val)
	}
	return nil
}
