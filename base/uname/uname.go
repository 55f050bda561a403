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

// Package uname provides unique names.
package uname

import "fmt"

// Unique generates unique names.
type Unique struct {
	names map[string]int
	taken map[string]bool
}

// New name generator.
func New() *Unique {
	return &Unique{
		names: make(map[string]int),
		taken: make(map[string]bool),
	}
}

// Register marks a name as used so that it is never returned by the generator.
func (n *Unique) Register(names ...string) {
	for _, name := range names {
		n.taken[name] = true
	}
}

// Name returns a unique name given a desired base name.
// If the base name is available, it is returned directly. Else, a unique suffix is appended.
func (n *Unique) Name(root string) string {
	if _, ok := n.names[root]; !ok {
		n.names[root] = 1
		if !n.taken[root] {
			n.taken[root] = true
			return root
		}
	}
	return n.next(root, "")
}

// Indexed returns a unique name built from a base name, a separator and an index.
// The first index is 0. Names already taken are skipped.
func (n *Unique) Indexed(root, sep string) string {
	return n.next(root, sep)
}

func (n *Unique) next(root, sep string) string {
	for {
		nextIndex := n.names[root]
		n.names[root] = nextIndex + 1
		name := fmt.Sprintf("%s%s%d", root, sep, nextIndex)
		if n.taken[name] {
			continue
		}
		n.taken[name] = true
		return name
	}
}
