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

// Package inline replaces operation applications by the body of the operation.
//
// Operations are declared in dependency order: the body of an operation can
// only apply the operations declared before it. The body of every operation
// is first flattened, that is all the applications it contains are inlined.
// Flattened bodies are computed the first time they are needed.
//
// Every call site opens a fresh scope: the local variables of the inlined
// body are renamed with a unique scope name so that two applications of the
// same operation never share variables.
package inline

import (
	"github.com/SecPriv/EtherTrust-sub001/base/uname"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/ir/rewrite"
)

const (
	// scopeSeparator separates the name of an operation from the index of a call site.
	scopeSeparator = "#"
	// localSeparator separates the name of a scope from the name of a local variable.
	localSeparator = "&&"
)

type (
	flattened struct {
		body ir.Expr
		err  error
	}

	// Inliner inlines the applications of a list of operations.
	Inliner struct {
		ops   []*ir.Operation
		index map[*ir.Operation]int
		flat  map[int]*flattened
		names *uname.Unique
	}
)

// New returns an inliner given operations in dependency order.
func New(ops []*ir.Operation) *Inliner {
	in := &Inliner{
		ops:   ops,
		index: make(map[*ir.Operation]int, len(ops)),
		flat:  make(map[int]*flattened),
		names: uname.New(),
	}
	for i, op := range ops {
		in.index[op] = i
	}
	return in
}

// Exprs returns an expression rewriter inlining all the operations.
func (in *Inliner) Exprs() *rewrite.Exprs {
	return in.rewriter(len(in.ops))
}

// Rules returns a rule rewriter inlining all the operations.
func (in *Inliner) Rules() *rewrite.Rules {
	return rewrite.Lift(in.Exprs())
}

// Flattened returns the body of an operation in which all applications have been inlined.
func (in *Inliner) Flattened(op *ir.Operation) (ir.Expr, error) {
	i, ok := in.index[op]
	if !ok {
		return nil, fmterr.Internalf("operation %s has not been declared", op.Name)
	}
	return in.flatten(i)
}

func (in *Inliner) flatten(i int) (ir.Expr, error) {
	if flat, ok := in.flat[i]; ok {
		return flat.body, flat.err
	}
	body, err := in.rewriter(i).Rewrite(in.ops[i].Body)
	in.flat[i] = &flattened{body: body, err: err}
	return body, err
}

// rewriter returns a rewriter inlining applications in the body of
// the operation at index current. Only the operations before current can be inlined.
func (in *Inliner) rewriter(current int) *rewrite.Exprs {
	return rewrite.NewExprs(func(rw *rewrite.Exprs, x ir.Expr) (ir.Expr, bool, error) {
		app, ok := x.(*ir.AppExpr)
		if !ok {
			return nil, false, nil
		}
		res, err := in.inlineCall(rw, current, app)
		return res, true, err
	})
}

func (in *Inliner) inlineCall(rw *rewrite.Exprs, current int, app *ir.AppExpr) (ir.Expr, error) {
	op := app.Op
	i, ok := in.index[op]
	if !ok {
		return nil, fmterr.Internalf("operation %s has not been declared", op.Name)
	}
	if i >= current {
		return nil, fmterr.Internalf("operation %s cannot be inlined in %s: operations are not in dependency order", op.Name, in.ops[current].Name)
	}
	if len(app.Params) != len(op.Params) || len(app.Args) != len(op.Args) {
		return nil, fmterr.Internalf("%s: wrong number of parameters or arguments", app)
	}
	params, _, err := rw.RewriteAll(app.Params)
	if err != nil {
		return nil, err
	}
	args, _, err := rw.RewriteAll(app.Args)
	if err != nil {
		return nil, err
	}
	body, err := in.flatten(i)
	if err != nil {
		return nil, err
	}
	bound := make(map[string]ir.Expr, len(params)+len(args))
	for j, param := range op.Params {
		bound[param.Name] = params[j]
	}
	for j, arg := range op.Args {
		bound[arg.Name] = args[j]
	}
	scope := in.names.Indexed(op.Name, scopeSeparator)
	return openScope(scope, bound).Rewrite(body)
}

// openScope returns a rewriter replacing the bound variables of an inlined body
// by their value and renaming all the other local variables into a scope.
func openScope(scope string, bound map[string]ir.Expr) *rewrite.Exprs {
	local := func(name string) string {
		return scope + localSeparator + name
	}
	return rewrite.NewExprs(func(_ *rewrite.Exprs, x ir.Expr) (ir.Expr, bool, error) {
		switch xT := x.(type) {
		case *ir.VarExpr:
			if val, ok := bound[xT.Name]; ok {
				return val, true, nil
			}
			return &ir.VarExpr{Name: local(xT.Name), Typ: xT.Typ}, true, nil
		case *ir.ParVarExpr:
			// Parameters in an operation body can only be bound by a sum.
			return &ir.ParVarExpr{Name: local(xT.Name), Typ: xT.Typ}, true, nil
		}
		return nil, false, nil
	}).WithPatterns(func(_ *rewrite.Exprs, p ir.Pattern) (ir.Pattern, bool, error) {
		w, ok := p.(*ir.WildcardPattern)
		if !ok || !w.Binds() {
			return nil, false, nil
		}
		return &ir.WildcardPattern{Name: local(w.Name), Typ: w.Typ}, true, nil
	})
}
