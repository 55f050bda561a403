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

// Package iter provides common iterators.
package iter

import (
	"iter"
	"slices"
)

// All iterates over the element of multiple slices.
func All[T any](slices ...[]T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, slice := range slices {
			for _, el := range slice {
				if !yield(el) {
					return
				}
			}
		}
	}
}

// Filter iterates over the element of multiple slices
// and excludes elements for which the filter returns false.
func Filter[T any](f func(T) bool, slices ...[]T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for el := range All(slices...) {
			if !f(el) {
				continue
			}
			if !yield(el) {
				return
			}
		}
	}
}

// Dependent iterates over a dependent product of n levels.
//
// The sequence of level i is requested only once the values of levels 0..i-1
// have been fixed, the same way nested loops would, so that levels can be
// computed from previous choices and can be unbounded. The prefix slice passed
// to level must not be retained. Iteration stops at the first error.
// A product of 0 levels yields a single empty tuple.
func Dependent[T any](n int, level func(i int, prefix []T) iter.Seq2[T, error]) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		prefix := make([]T, 0, n)
		var next func() bool
		next = func() bool {
			i := len(prefix)
			if i == n {
				return yield(slices.Clone(prefix), nil)
			}
			for v, err := range level(i, prefix) {
				if err != nil {
					yield(nil, err)
					return false
				}
				prefix = append(prefix, v)
				cont := next()
				prefix = prefix[:i]
				if !cont {
					return false
				}
			}
			return true
		}
		next()
	}
}
