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

	"github.com/SecPriv/EtherTrust-sub001/base/stringseq"
)

type (
	// SelectorFunction declares a function implemented by the host.
	// Given values for its parameters, the function returns a sequence of tuples.
	SelectorFunction struct {
		Name        string
		ParamTypes  []Type
		ReturnTypes []Type
	}

	// SelectorInvocation binds parameters to the components of
	// the tuples returned by a selector function call.
	SelectorInvocation struct {
		Func  *SelectorFunction
		Args  []Expr
		Binds []*ParVarExpr
	}

	// CompoundInvocation is a dependent product of selector invocations:
	// the arguments of an invocation can reference the parameters bound
	// by the invocations before it.
	CompoundInvocation struct {
		Invocations []*SelectorInvocation
	}
)

func (*SelectorFunction) node() {}

// Signature of the function. Implementations are registered and looked up by signature.
func (f *SelectorFunction) Signature() string {
	return Signature(f.Name, f.ParamTypes, f.ReturnTypes)
}

func (f *SelectorFunction) String() string {
	return f.Signature()
}

// Signature returns the signature of a selector function given its name and types.
func Signature(name string, params, results []Type) string {
	return fmt.Sprintf("%s(%s)->(%s)",
		name,
		stringseq.JoinStringers(params, ","),
		stringseq.JoinStringers(results, ","),
	)
}

func (*SelectorInvocation) node() {}

func (*CompoundInvocation) node() {}

// Unit returns the invocation with an empty domain product, that is a domain with a single point.
func Unit() *CompoundInvocation {
	return &CompoundInvocation{}
}

// IsUnit returns true if the invocation binds no parameter.
func (c *CompoundInvocation) IsUnit() bool {
	return c == nil || len(c.Invocations) == 0
}

// Binds returns all the parameters bound by the invocation, in order.
func (c *CompoundInvocation) Binds() []*ParVarExpr {
	if c == nil {
		return nil
	}
	var binds []*ParVarExpr
	for _, inv := range c.Invocations {
		binds = append(binds, inv.Binds...)
	}
	return binds
}
