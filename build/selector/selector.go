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

// Package selector implements the registry of selector functions
// and the selector functions available to every program.
package selector

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/eval"
	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

type (
	// Func is the host implementation of a selector function.
	// Given the values of its parameters, it returns a sequence of tuples.
	// The sequence can be unbounded.
	Func func(args []ir.Value) iter.Seq2[[]ir.Value, error]

	// Registry associates selector function signatures with their implementation.
	Registry struct {
		impls map[string]Func
	}
)

var _ eval.Domain = (*Registry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{impls: make(map[string]Func)}
}

// Register the implementation of a selector function.
func (r *Registry) Register(fn *ir.SelectorFunction, impl Func) error {
	sig := fn.Signature()
	if _, ok := r.impls[sig]; ok {
		return errors.Errorf("selector function %s already registered", sig)
	}
	r.impls[sig] = impl
	return nil
}

// Has returns true if an implementation has been registered for a selector function.
func (r *Registry) Has(fn *ir.SelectorFunction) bool {
	_, ok := r.impls[fn.Signature()]
	return ok
}

// Invoke calls the implementation of a selector function.
//
// Errors returned by the implementation are marked as host errors.
// A panic in the implementation is recovered and returned as a host error.
func (r *Registry) Invoke(fn *ir.SelectorFunction, args []ir.Value) iter.Seq2[[]ir.Value, error] {
	sig := fn.Signature()
	return func(yield func([]ir.Value, error) bool) {
		impl, ok := r.impls[sig]
		if !ok {
			yield(nil, fmterr.Internalf("no implementation registered for selector function %s", sig))
			return
		}
		if len(args) != len(fn.ParamTypes) {
			yield(nil, fmterr.Internalf("selector function %s called with %d arguments", sig, len(args)))
			return
		}
		inBody := false
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if inBody {
				panic(p)
			}
			yield(nil, fmterr.Host(sig, errors.Errorf("panic: %v", p)))
		}()
		for tuple, err := range impl(args) {
			if err != nil {
				yield(nil, fmterr.Host(sig, err))
				return
			}
			inBody = true
			cont := yield(tuple, nil)
			inBody = false
			if !cont {
				return
			}
		}
	}
}

// Stream adapts a sequence of tuples, possibly unbounded, into a selector function implementation.
func Stream(f func(args []ir.Value) iter.Seq[[]ir.Value]) Func {
	return func(args []ir.Value) iter.Seq2[[]ir.Value, error] {
		return func(yield func([]ir.Value, error) bool) {
			for tuple := range f(args) {
				if !yield(tuple, nil) {
					return
				}
			}
		}
	}
}

// Table returns a selector function implementation returning a fixed list of tuples,
// regardless of its arguments.
func Table(rows ...[]ir.Value) Func {
	return Stream(func([]ir.Value) iter.Seq[[]ir.Value] {
		return func(yield func([]ir.Value) bool) {
			for _, row := range rows {
				if !yield(row) {
					return
				}
			}
		}
	})
}

func intArgs(args []ir.Value) ([]*ir.IntValue, error) {
	ints := make([]*ir.IntValue, len(args))
	for i, arg := range args {
		val, ok := arg.(*ir.IntValue)
		if !ok {
			return nil, errors.Errorf("argument %d: %s is not an integer", i, arg)
		}
		ints[i] = val
	}
	return ints, nil
}

func errorSeq(err error) iter.Seq2[[]ir.Value, error] {
	return func(yield func([]ir.Value, error) bool) {
		yield(nil, err)
	}
}
