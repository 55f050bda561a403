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
	"iter"

	"github.com/pkg/errors"

	baseiter "github.com/SecPriv/EtherTrust-sub001/base/iter"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// Points iterates over the domain of a compound invocation.
//
// Every point is the environment extended with the parameters bound at that point.
// The arguments of an invocation are evaluated once the parameters of the
// previous invocations have been bound, so selector functions are only called
// when their arguments are known and domains are never materialised.
// A unit invocation yields env once.
func (ev *Evaluator) Points(env *Env, inv *ir.CompoundInvocation) iter.Seq2[*Env, error] {
	var invocations []*ir.SelectorInvocation
	if inv != nil {
		invocations = inv.Invocations
	}
	product := baseiter.Dependent(len(invocations), func(i int, prefix []*Env) iter.Seq2[*Env, error] {
		base := env
		if i > 0 {
			base = prefix[i-1]
		}
		return ev.invoke(base, invocations[i])
	})
	return func(yield func(*Env, error) bool) {
		for point, err := range product {
			if err != nil {
				yield(nil, err)
				return
			}
			last := env
			if len(point) > 0 {
				last = point[len(point)-1]
			}
			if !yield(last, nil) {
				return
			}
		}
	}
}

func (ev *Evaluator) invoke(env *Env, inv *ir.SelectorInvocation) iter.Seq2[*Env, error] {
	return func(yield func(*Env, error) bool) {
		if ev.domain == nil {
			yield(nil, fmterr.Internalf("cannot invoke %s: no selector functions available", inv.Func.Signature()))
			return
		}
		args, err := ev.evalAll(env, inv.Args)
		if err != nil {
			yield(nil, err)
			return
		}
		for tuple, err := range ev.domain.Invoke(inv.Func, args) {
			if err != nil {
				yield(nil, err)
				return
			}
			if len(tuple) != len(inv.Binds) {
				yield(nil, fmterr.Host(inv.Func.Signature(), errors.Errorf("got a tuple of %d values but want %d", len(tuple), len(inv.Binds))))
				return
			}
			point := env
			for i, bind := range inv.Binds {
				point = point.WithParVar(bind.Name, tuple[i])
			}
			if !yield(point, nil) {
				return
			}
		}
	}
}

func (ev *Evaluator) evalSum(env *Env, x *ir.SumExpr) (ir.Value, error) {
	switch opT := x.Op.(type) {
	case *ir.BuiltinSum:
		acc, err := ev.Eval(env, opT.Identity())
		if err != nil {
			return nil, err
		}
		for point, err := range ev.Points(env, x.Invocation) {
			if err != nil {
				return nil, err
			}
			val, err := ev.Eval(point, x.Body)
			if err != nil {
				return nil, err
			}
			if acc, err = ev.Binary(opT.Op, acc, val); err != nil {
				return nil, err
			}
		}
		return acc, nil
	case *ir.CustomSum:
		acc, err := ev.Eval(env, opT.Start)
		if err != nil {
			return nil, err
		}
		for point, err := range ev.Points(env, x.Invocation) {
			if err != nil {
				return nil, err
			}
			if acc, err = ev.Eval(point.WithVar(opT.Acc.Name, acc), opT.Body); err != nil {
				return nil, err
			}
		}
		return acc, nil
	case *ir.InlinedCustomSum:
		accs, err := ev.evalAll(env, opT.Starts)
		if err != nil {
			return nil, err
		}
		for point, err := range ev.Points(env, x.Invocation) {
			if err != nil {
				return nil, err
			}
			for i, acc := range opT.Accs {
				point = point.WithVar(acc.Name, accs[i])
			}
			if accs, err = ev.evalAll(point, opT.Bodies); err != nil {
				return nil, err
			}
		}
		return accs[opT.Leaf], nil
	}
	return nil, fmterr.Internalf("sum operation %T not supported", x.Op)
}
