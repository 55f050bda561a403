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

package layout

import (
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// compiledBranch is a match branch where patterns have been compiled
// into a condition on the leaves of the scrutinees.
type compiledBranch struct {
	cond   ir.Expr
	result []ir.Expr
}

// compilePattern returns the condition for the leaves of a value to match a pattern.
// The leaves bound by the pattern are added to the scope.
func (f *flattener) compilePattern(sc scope, p ir.Pattern, leaves []ir.Expr) (ir.Expr, scope, error) {
	switch pT := p.(type) {
	case *ir.WildcardPattern:
		if pT.Binds() {
			sc = sc.with(pT.Name, leaves)
		}
		return ir.BoolLiteral(true), sc, nil
	case *ir.ValuePattern:
		lay, err := f.l.Layout(pT.Ctor.Type)
		if err != nil {
			return nil, nil, err
		}
		if len(pT.Subs) != len(pT.Ctor.Fields) {
			return nil, nil, fmterr.Internalf("pattern %s has %d sub-patterns but %s has %d fields", pT, len(pT.Subs), pT.Ctor.Name, len(pT.Ctor.Fields))
		}
		conds := []ir.Expr{lay.TagEquals(pT.Ctor, leaves)}
		for i, sub := range pT.Subs {
			var cond ir.Expr
			if cond, sc, err = f.compilePattern(sc, sub, lay.Field(pT.Ctor, i, leaves)); err != nil {
				return nil, nil, err
			}
			conds = append(conds, cond)
		}
		return and(conds...), sc, nil
	}
	return nil, nil, fmterr.Internalf("pattern %T not supported", p)
}

// flattenMatch compiles a match expression into nested conditional expressions,
// one for every leaf of the result:
//
//	cond_1 ? result_1 : (cond_2 ? result_2 : ... : result_n)
//
// The last branch is taken when no other branch matches: its condition is never tested.
// A branch whose condition is true makes the following branches unreachable.
func (f *flattener) flattenMatch(sc scope, x *ir.MatchExpr) ([]ir.Expr, error) {
	scrutinees := make([][]ir.Expr, len(x.Scrutinees))
	for i, scrutinee := range x.Scrutinees {
		var err error
		if scrutinees[i], err = f.flatten(sc, scrutinee); err != nil {
			return nil, err
		}
	}
	var branches []compiledBranch
	for _, branch := range x.Branches {
		if len(branch.Patterns) != len(scrutinees) {
			return nil, fmterr.Internalf("branch %s has %d patterns but %d scrutinees are matched", branch, len(branch.Patterns), len(scrutinees))
		}
		branchScope := sc
		conds := make([]ir.Expr, len(branch.Patterns))
		for i, p := range branch.Patterns {
			var err error
			if conds[i], branchScope, err = f.compilePattern(branchScope, p, scrutinees[i]); err != nil {
				return nil, err
			}
		}
		result, err := f.flatten(branchScope, branch.Result)
		if err != nil {
			return nil, err
		}
		cond := and(conds...)
		branches = append(branches, compiledBranch{cond: cond, result: result})
		if isTrue(cond) {
			break
		}
	}
	if len(branches) == 0 {
		return nil, fmterr.Internalf("%s has no branch", x)
	}
	last := branches[len(branches)-1]
	leaves := append([]ir.Expr{}, last.result...)
	for b := len(branches) - 2; b >= 0; b-- {
		branch := branches[b]
		if len(branch.result) != len(leaves) {
			return nil, fmterr.Internalf("branches of %s have a different number of leaves", x)
		}
		for p := range leaves {
			leaves[p] = &ir.CondExpr{Cond: branch.cond, Then: branch.result[p], Else: leaves[p]}
		}
	}
	return leaves, nil
}
