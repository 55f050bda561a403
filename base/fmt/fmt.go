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

// Package fmt formats multi-line listings of rules and clauses for debugging.
package fmt

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Number adds a number prefix to all lines in a string.
// Numbers are zero-padded so that all the lines stay aligned.
func Number(x string) string {
	lines := slices.Collect(strings.Lines(x))
	if len(lines) == 0 {
		return ""
	}
	numDigits := int(math.Log10(float64(len(lines)))) + 1
	fmtString := fmt.Sprintf("%%0%dd %%s", numDigits)
	var s strings.Builder
	for i, line := range lines {
		s.WriteString(fmt.Sprintf(fmtString, i+1, line))
	}
	return s.String()
}

// IndentSkip skips some lines and indent the rest with a tabulation.
func IndentSkip(skip int, x string) string {
	var y strings.Builder
	n := 0
	for line := range strings.Lines(x) {
		if n >= skip {
			y.WriteString("\t")
		}
		y.WriteString(line)
		n++
	}
	return y.String()
}

// Indent the given string by a tabulation.
func Indent(x string) string {
	return IndentSkip(0, x)
}

// Listing returns a title followed by numbered and indented items.
// An item spanning several lines keeps its continuation lines
// under the same number.
func Listing(title string, items []string) string {
	var s strings.Builder
	s.WriteString(title)
	s.WriteString(":")
	if len(items) == 0 {
		s.WriteString(" <empty>")
		return s.String()
	}
	s.WriteString("\n")
	joined := make([]string, len(items))
	for i, item := range items {
		joined[i] = strings.ReplaceAll(item, "\n", " ")
	}
	s.WriteString(Indent(Number(strings.Join(joined, "\n"))))
	return s.String()
}
