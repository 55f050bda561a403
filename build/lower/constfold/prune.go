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

package constfold

import (
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

// PruneDeadClauses returns a rule rewriter removing the clauses which can never fire,
// that is clauses with a literal false premise.
// Literal true premises are removed from the other clauses.
func PruneDeadClauses() *rewrite.Rules {
	return rewrite.NewRules(rewrite.NewClauses(nil, pruneClause), nil)
}

func pruneClause(_ *rewrite.Clauses, c *ir.Clause) ([]*ir.Clause, bool, error) {
	var premises []ir.Proposition
	changed := false
	for _, p := range c.Premises {
		prop, ok := p.(*ir.ExprProp)
		if !ok {
			premises = append(premises, p)
			continue
		}
		lit, ok := prop.X.(*ir.BoolLit)
		if !ok {
			premises = append(premises, p)
			continue
		}
		if !lit.Val {
			return nil, true, nil
		}
		changed = true
	}
	if !changed {
		return []*ir.Clause{c}, true, nil
	}
	return []*ir.Clause{ir.NewClause(premises, c.Conclusion)}, true, nil
}
