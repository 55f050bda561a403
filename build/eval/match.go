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
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// MatchPattern returns true if a value matches a pattern.
// The values bound by the pattern are added to the environment.
func MatchPattern(env *Env, p ir.Pattern, val ir.Value) (*Env, bool) {
	switch pT := p.(type) {
	case *ir.WildcardPattern:
		if pT.Binds() {
			env = env.WithVar(pT.Name, val)
		}
		return env, true
	case *ir.ValuePattern:
		custom, ok := val.(*ir.CustomValue)
		if !ok || custom.Ctor != pT.Ctor {
			return env, false
		}
		for i, sub := range pT.Subs {
			if env, ok = MatchPattern(env, sub, custom.Fields[i]); !ok {
				return env, false
			}
		}
		return env, true
	}
	return env, false
}

func (ev *Evaluator) evalMatch(env *Env, x *ir.MatchExpr) (ir.Value, error) {
	scrutinees, err := ev.evalAll(env, x.Scrutinees)
	if err != nil {
		return nil, err
	}
	for _, branch := range x.Branches {
		if len(branch.Patterns) != len(scrutinees) {
			return nil, fmterr.Internalf("branch %s has %d patterns but %d scrutinees are matched", branch, len(branch.Patterns), len(scrutinees))
		}
		branchEnv, matched := env, true
		for i, p := range branch.Patterns {
			if branchEnv, matched = MatchPattern(branchEnv, p, scrutinees[i]); !matched {
				break
			}
		}
		if matched {
			return ev.Eval(branchEnv, branch.Result)
		}
	}
	return nil, fmterr.Internalf("no branch of %s matches %v", x, scrutinees)
}
