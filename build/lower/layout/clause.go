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
	"fmt"

	"github.com/SecPriv/EtherTrust-sub001/base/uname"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

func leafName(name string, leaf int) string {
	return fmt.Sprintf("%s%s%d", name, leafSeparator, leaf)
}

// Rules returns a rule rewriter flattening custom types.
func (l *Layouter) Rules() *rewrite.Rules {
	return rewrite.NewRules(rewrite.NewClauses(nil, func(_ *rewrite.Clauses, c *ir.Clause) ([]*ir.Clause, bool, error) {
		flat, err := l.Clause(c)
		if err != nil {
			return nil, false, err
		}
		return []*ir.Clause{flat}, true, nil
	}), nil)
}

// Predicate returns the predicate in which the types of the parameters
// and of the arguments have been flattened.
func (l *Layouter) Predicate(pred *ir.Predicate) (*ir.Predicate, error) {
	if flat, ok := l.preds[pred]; ok {
		return flat, nil
	}
	params, err := l.LeavesAll(pred.ParamTypes)
	if err != nil {
		return nil, err
	}
	args, err := l.LeavesAll(pred.ArgTypes)
	if err != nil {
		return nil, err
	}
	flat := pred
	if !ir.TypesEqual(params, pred.ParamTypes) || !ir.TypesEqual(args, pred.ArgTypes) {
		flat = &ir.Predicate{Name: pred.Name, ParamTypes: params, ArgTypes: args}
	}
	l.preds[pred] = flat
	return flat, nil
}

// Clause flattens the custom types of a clause.
//
// A free variable of a custom type is replaced by one free variable for every
// leaf of its type. The name of a leaf variable is the name of the variable
// suffixed with the index of the leaf. Predicate applications are applications
// of the flattened predicate: their arguments are replaced by their leaves.
func (l *Layouter) Clause(c *ir.Clause) (*ir.Clause, error) {
	f := &flattener{l: l, free: make(map[string][]ir.Expr)}
	names := uname.New()
	for name := range c.FreeVars.Keys() {
		names.Register(name)
	}
	for name, tp := range c.FreeVars.Iter() {
		if ir.IsPrimitive(tp) {
			continue
		}
		leafTypes, err := l.Leaves(tp)
		if err != nil {
			return nil, err
		}
		leaves := make([]ir.Expr, len(leafTypes))
		for i, leafType := range leafTypes {
			leaves[i] = &ir.FreeVarExpr{Name: names.Indexed(name, leafSeparator), Typ: leafType}
		}
		f.free[name] = leaves
	}
	premises := make([]ir.Proposition, len(c.Premises))
	for i, premise := range c.Premises {
		var err error
		if premises[i], err = f.proposition(premise); err != nil {
			return nil, err
		}
	}
	conclusion, err := f.predicate(c.Conclusion)
	if err != nil {
		return nil, err
	}
	return ir.NewClause(premises, conclusion), nil
}

func (f *flattener) proposition(p ir.Proposition) (ir.Proposition, error) {
	switch pT := p.(type) {
	case *ir.PredicateProp:
		return f.predicate(pT)
	case *ir.ExprProp:
		x, err := f.one(nil, pT.X)
		if err != nil {
			return nil, err
		}
		return &ir.ExprProp{X: x}, nil
	}
	return nil, fmterr.Internalf("proposition %T not supported", p)
}

func (f *flattener) predicate(p *ir.PredicateProp) (*ir.PredicateProp, error) {
	pred, err := f.l.Predicate(p.Pred)
	if err != nil {
		return nil, err
	}
	params, err := f.all(nil, p.Params)
	if err != nil {
		return nil, err
	}
	args, err := f.all(nil, p.Args)
	if err != nil {
		return nil, err
	}
	if len(params) != len(pred.ParamTypes) || len(args) != len(pred.ArgTypes) {
		return nil, fmterr.Internalf("%s: the number of leaves does not match predicate %s", p, pred)
	}
	return &ir.PredicateProp{Pred: pred, Params: params, Args: args}, nil
}
