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

// Package trace is the API to observe the rules between the passes of the pipeline.
package trace

import (
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

type (
	// Callback is called after every pass of the pipeline
	// with the rules produced by the pass. Rules must not be modified.
	Callback interface {
		Trace(pass string, rules []*ir.Rule) error
	}

	// Func is a function implementing Callback.
	Func func(pass string, rules []*ir.Rule) error
)

// Trace calls the function.
func (f Func) Trace(pass string, rules []*ir.Rule) error {
	return f(pass, rules)
}
