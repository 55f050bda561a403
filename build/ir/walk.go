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
	"github.com/SecPriv/EtherTrust-sub001/base/ordered"
)

// Children returns the direct sub-expressions of an expression.
func Children(x Expr) []Expr {
	switch xT := x.(type) {
	case *ArrayLit:
		return []Expr{xT.Init}
	case *BinaryExpr:
		return []Expr{xT.X, xT.Y}
	case *UnaryExpr:
		return []Expr{xT.X}
	case *SelectExpr:
		return []Expr{xT.Array, xT.Index}
	case *StoreExpr:
		return []Expr{xT.Array, xT.Index, xT.Value}
	case *CondExpr:
		return []Expr{xT.Cond, xT.Then, xT.Else}
	case *AppExpr:
		return append(append([]Expr{}, xT.Params...), xT.Args...)
	case *ConstructorAppExpr:
		return xT.Args
	case *MatchExpr:
		kids := append([]Expr{}, xT.Scrutinees...)
		for _, branch := range xT.Branches {
			kids = append(kids, branch.Result)
		}
		return kids
	case *ConstExpr:
		return []Expr{xT.Value}
	case *SumExpr:
		var kids []Expr
		for _, inv := range xT.Invocation.Invocations {
			kids = append(kids, inv.Args...)
		}
		switch opT := xT.Op.(type) {
		case *CustomSum:
			kids = append(kids, opT.Start, opT.Body)
		case *InlinedCustomSum:
			kids = append(kids, opT.Starts...)
			kids = append(kids, opT.Bodies...)
		}
		if xT.Body != nil {
			kids = append(kids, xT.Body)
		}
		return kids
	}
	return nil
}

// Inspect traverses an expression in depth-first order.
// If f returns false, the children of the expression are not visited.
func Inspect(x Expr, f func(Expr) bool) {
	if x == nil || !f(x) {
		return
	}
	for _, kid := range Children(x) {
		Inspect(kid, f)
	}
}

// Any returns true if f returns true for an expression in the tree.
func Any(x Expr, f func(Expr) bool) bool {
	found := false
	Inspect(x, func(x Expr) bool {
		if found {
			return false
		}
		if f(x) {
			found = true
		}
		return !found
	})
	return found
}

// PropositionExprs returns all the expressions of a proposition.
func PropositionExprs(p Proposition) []Expr {
	switch pT := p.(type) {
	case *PredicateProp:
		return append(append([]Expr{}, pT.Params...), pT.Args...)
	case *ExprProp:
		return []Expr{pT.X}
	}
	return nil
}

// ClauseExprs returns all the top-level expressions of a clause.
func ClauseExprs(c *Clause) []Expr {
	var exprs []Expr
	for prop := range c.Propositions() {
		exprs = append(exprs, PropositionExprs(prop)...)
	}
	return exprs
}

// AnyInClause returns true if f returns true for an expression of the clause.
func AnyInClause(c *Clause, f func(Expr) bool) bool {
	for _, x := range ClauseExprs(c) {
		if Any(x, f) {
			return true
		}
	}
	return false
}

// CollectFreeVars returns the free variables referenced in a clause, in order of appearance.
func CollectFreeVars(c *Clause) *ordered.Map[string, Type] {
	vars := ordered.NewMap[string, Type]()
	for _, x := range ClauseExprs(c) {
		Inspect(x, func(x Expr) bool {
			if v, ok := x.(*FreeVarExpr); ok && !vars.Has(v.Name) {
				vars.Store(v.Name, v.Typ)
			}
			return true
		})
	}
	return vars
}

// IsClosed returns true if an expression references no free variable.
func IsClosed(x Expr) bool {
	return !Any(x, func(x Expr) bool {
		_, ok := x.(*FreeVarExpr)
		return ok
	})
}
