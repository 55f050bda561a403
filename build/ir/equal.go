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

// Equal returns true if two expressions are structurally equal.
// It is a syntactic comparison: (1 + x) and (x + 1) are different.
func Equal(x, y Expr) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	switch xT := x.(type) {
	case *IntLit:
		yT, ok := y.(*IntLit)
		return ok && xT.Val.Cmp(yT.Val) == 0
	case *BoolLit:
		yT, ok := y.(*BoolLit)
		return ok && xT.Val == yT.Val
	case *ArrayLit:
		yT, ok := y.(*ArrayLit)
		return ok && xT.Elem.Equal(yT.Elem) && Equal(xT.Init, yT.Init)
	case *VarExpr:
		yT, ok := y.(*VarExpr)
		return ok && xT.Name == yT.Name
	case *FreeVarExpr:
		yT, ok := y.(*FreeVarExpr)
		return ok && xT.Name == yT.Name
	case *ParVarExpr:
		yT, ok := y.(*ParVarExpr)
		return ok && xT.Name == yT.Name
	case *BinaryExpr:
		yT, ok := y.(*BinaryExpr)
		return ok && xT.Op == yT.Op && Equal(xT.X, yT.X) && Equal(xT.Y, yT.Y)
	case *UnaryExpr:
		yT, ok := y.(*UnaryExpr)
		return ok && xT.Op == yT.Op && Equal(xT.X, yT.X)
	case *SelectExpr:
		yT, ok := y.(*SelectExpr)
		return ok && Equal(xT.Array, yT.Array) && Equal(xT.Index, yT.Index)
	case *StoreExpr:
		yT, ok := y.(*StoreExpr)
		return ok && Equal(xT.Array, yT.Array) && Equal(xT.Index, yT.Index) && Equal(xT.Value, yT.Value)
	case *CondExpr:
		yT, ok := y.(*CondExpr)
		return ok && Equal(xT.Cond, yT.Cond) && Equal(xT.Then, yT.Then) && Equal(xT.Else, yT.Else)
	case *AppExpr:
		yT, ok := y.(*AppExpr)
		return ok && xT.Op.Name == yT.Op.Name && AllEqual(xT.Params, yT.Params) && AllEqual(xT.Args, yT.Args)
	case *ConstructorAppExpr:
		yT, ok := y.(*ConstructorAppExpr)
		return ok && xT.Ctor.Name == yT.Ctor.Name && AllEqual(xT.Args, yT.Args)
	case *ConstExpr:
		yT, ok := y.(*ConstExpr)
		return ok && xT.Name == yT.Name
	case *MatchExpr, *SumExpr:
		// Compare binders and bodies through their canonical representation.
		return x.String() == y.String()
	}
	return false
}

// AllEqual returns true if two lists of expressions are structurally equal.
func AllEqual(xs, ys []Expr) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i, x := range xs {
		if !Equal(x, ys[i]) {
			return false
		}
	}
	return true
}
