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
	"fmt"
	"strings"

	"github.com/SecPriv/EtherTrust-sub001/base/stringseq"
)

func exprString(x Expr) string {
	if x == nil {
		return "<nil>"
	}
	return x.String()
}

func joinExprs(xs []Expr) string {
	return stringseq.JoinFunc(xs, exprString, ", ")
}

func (x *IntLit) String() string { return x.Val.String() }

func (x *BoolLit) String() string {
	if x.Val {
		return "true"
	}
	return "false"
}

func (x *ArrayLit) String() string { return fmt.Sprintf("[%s]", exprString(x.Init)) }

func (x *VarExpr) String() string { return x.Name }

func (x *FreeVarExpr) String() string { return "?" + x.Name }

func (x *ParVarExpr) String() string { return "!" + x.Name }

func (x *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", exprString(x.X), x.Op.String(), exprString(x.Y))
}

func (x *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", x.Op.String(), exprString(x.X))
}

func (x *SelectExpr) String() string {
	return fmt.Sprintf("%s[%s]", exprString(x.Array), exprString(x.Index))
}

func (x *StoreExpr) String() string {
	return fmt.Sprintf("%s[%s := %s]", exprString(x.Array), exprString(x.Index), exprString(x.Value))
}

func (x *CondExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", exprString(x.Cond), exprString(x.Then), exprString(x.Else))
}

func paramsAndArgs(name string, params, args []Expr) string {
	var s strings.Builder
	s.WriteString(name)
	if len(params) > 0 {
		s.WriteString("{" + joinExprs(params) + "}")
	}
	s.WriteString("(" + joinExprs(args) + ")")
	return s.String()
}

func (x *AppExpr) String() string {
	return paramsAndArgs(x.Op.Name, x.Params, x.Args)
}

func (x *ConstructorAppExpr) String() string {
	if len(x.Args) == 0 {
		return x.Ctor.Name
	}
	return fmt.Sprintf("%s(%s)", x.Ctor.Name, joinExprs(x.Args))
}

func (x *MatchExpr) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("match (%s) with", joinExprs(x.Scrutinees)))
	for _, branch := range x.Branches {
		s.WriteString(" | ")
		s.WriteString(branch.String())
	}
	return s.String()
}

func (b *MatchBranch) String() string {
	return fmt.Sprintf("%s => %s", stringseq.JoinStringers(b.Patterns, ", "), exprString(b.Result))
}

func (x *ConstExpr) String() string { return x.Name }

func (x *SumExpr) String() string {
	body := ""
	if x.Body != nil {
		body = ", " + exprString(x.Body)
	}
	return fmt.Sprintf("sum{%s}(%s%s)", x.Invocation.String(), x.Op.String(), body)
}

func (p *ValuePattern) String() string {
	if len(p.Subs) == 0 {
		return p.Ctor.Name
	}
	return fmt.Sprintf("%s(%s)", p.Ctor.Name, stringseq.JoinStringers(p.Subs, ", "))
}

func (p *WildcardPattern) String() string { return p.Name }

func (s *BuiltinSum) String() string { return s.Op.String() }

func (s *CustomSum) String() string {
	return fmt.Sprintf("%s = %s; %s", s.Acc.Name, exprString(s.Start), exprString(s.Body))
}

func (s *InlinedCustomSum) String() string {
	parts := make([]string, len(s.Accs))
	for i, acc := range s.Accs {
		parts[i] = fmt.Sprintf("%s = %s; %s", acc.Name, exprString(s.Starts[i]), exprString(s.Bodies[i]))
	}
	return fmt.Sprintf("[%s]#%d", strings.Join(parts, " & "), s.Leaf)
}

func (inv *SelectorInvocation) String() string {
	binds := stringseq.JoinStringers(inv.Binds, ", ")
	return fmt.Sprintf("(%s) in %s(%s)", binds, inv.Func.Name, joinExprs(inv.Args))
}

func (c *CompoundInvocation) String() string {
	if c.IsUnit() {
		return ""
	}
	return stringseq.JoinStringers(c.Invocations, ", ")
}

func (p *Predicate) String() string {
	var s strings.Builder
	s.WriteString(p.Name)
	if len(p.ParamTypes) > 0 {
		s.WriteString("{" + stringseq.JoinStringers(p.ParamTypes, ", ") + "}")
	}
	s.WriteString(": " + stringseq.JoinStringers(p.ArgTypes, "*"))
	return s.String()
}

func (p *PredicateProp) String() string {
	return paramsAndArgs(p.Pred.Name, p.Params, p.Args)
}

func (p *ExprProp) String() string { return exprString(p.X) }

func (c *Clause) String() string {
	var s strings.Builder
	s.WriteString("[")
	i := 0
	for name, tp := range c.FreeVars.Iter() {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(fmt.Sprintf("?%s:%s", name, tp.String()))
		i++
	}
	s.WriteString("] ")
	if len(c.Premises) > 0 {
		s.WriteString(stringseq.JoinStringers(c.Premises, ", "))
		s.WriteString(" => ")
	}
	s.WriteString(c.Conclusion.String())
	return s.String()
}

func (r *Rule) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s %s", r.Kind.String(), r.Name))
	if !r.Invocation.IsUnit() {
		s.WriteString(" for " + r.Invocation.String())
	}
	if r.Expect != ExpectNothing {
		s.WriteString(" expect " + r.Expect.String())
	}
	for _, c := range r.Clauses {
		s.WriteString("\n\tclause " + c.String())
	}
	return s.String()
}

func (op *Operation) String() string {
	decl := func(v *VarExpr) string { return v.Name + ":" + v.Typ.String() }
	var s strings.Builder
	s.WriteString("op " + op.Name)
	if len(op.Params) > 0 {
		s.WriteString("{" + stringseq.JoinFunc(op.Params, decl, ", ") + "}")
	}
	s.WriteString(fmt.Sprintf("(%s): %s := %s", stringseq.JoinFunc(op.Args, decl, ", "), op.Result.String(), exprString(op.Body)))
	return s.String()
}
