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

package selector

import (
	"iter"
	"math/big"

	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

var (
	// IntervalRange is the selector function interval(lo, hi) returning the integers in [lo, hi).
	IntervalRange = &ir.SelectorFunction{
		Name:        "interval",
		ParamTypes:  []ir.Type{ir.Int(), ir.Int()},
		ReturnTypes: []ir.Type{ir.Int()},
	}

	// IntervalN is the selector function interval(n) returning the integers in [0, n).
	IntervalN = &ir.SelectorFunction{
		Name:        "interval",
		ParamTypes:  []ir.Type{ir.Int()},
		ReturnTypes: []ir.Type{ir.Int()},
	}

	// Bools is the selector function bools() returning false and true.
	Bools = &ir.SelectorFunction{
		Name:        "bools",
		ReturnTypes: []ir.Type{ir.Bool()},
	}
)

// interval yields the integers in [lo, hi).
func interval(args []ir.Value) iter.Seq2[[]ir.Value, error] {
	ints, err := intArgs(args)
	if err != nil {
		return errorSeq(err)
	}
	lo, hi := new(big.Int), ints[len(ints)-1].Val
	if len(ints) == 2 {
		lo = ints[0].Val
	}
	return func(yield func([]ir.Value, error) bool) {
		one := big.NewInt(1)
		for i := new(big.Int).Set(lo); i.Cmp(hi) < 0; i = new(big.Int).Add(i, one) {
			if !yield([]ir.Value{&ir.IntValue{Val: i}}, nil) {
				return
			}
		}
	}
}

func bools([]ir.Value) iter.Seq2[[]ir.Value, error] {
	return func(yield func([]ir.Value, error) bool) {
		if !yield([]ir.Value{ir.BoolVal(false)}, nil) {
			return
		}
		yield([]ir.Value{ir.BoolVal(true)}, nil)
	}
}

// Builtins returns a registry with the selector functions available to every program.
func Builtins() *Registry {
	r := NewRegistry()
	r.impls[IntervalRange.Signature()] = interval
	r.impls[IntervalN.Signature()] = interval
	r.impls[Bools.Signature()] = bools
	return r
}
