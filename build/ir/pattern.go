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

type (
	// ValuePattern matches values built with a given constructor
	// and whose fields match the sub-patterns.
	ValuePattern struct {
		Ctor *Constructor
		Subs []Pattern
	}

	// WildcardPattern matches any value.
	// The value is bound to Name unless Name is "_".
	WildcardPattern struct {
		Name string
		Typ  Type
	}
)

var (
	_ Pattern = (*ValuePattern)(nil)
	_ Pattern = (*WildcardPattern)(nil)
)

// Blank is the name of a wildcard binding nothing.
const Blank = "_"

func (*ValuePattern) node()    {}
func (*ValuePattern) pattern() {}

func (*WildcardPattern) node()    {}
func (*WildcardPattern) pattern() {}

// Binds returns true if the wildcard binds the matched value to a name.
func (p *WildcardPattern) Binds() bool {
	return p.Name != Blank
}

// PatternNames returns the names bound by a pattern, in order.
func PatternNames(p Pattern) []string {
	switch pT := p.(type) {
	case *WildcardPattern:
		if pT.Binds() {
			return []string{pT.Name}
		}
	case *ValuePattern:
		var names []string
		for _, sub := range pT.Subs {
			names = append(names, PatternNames(sub)...)
		}
		return names
	}
	return nil
}
