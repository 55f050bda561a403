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

package tracer_test

import (
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/SecPriv/EtherTrust-sub001/api/trace"
	"github.com/SecPriv/EtherTrust-sub001/api/tracer"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	ih "github.com/SecPriv/EtherTrust-sub001/build/ir/irhelper"
)

func rules() []*ir.Rule {
	p := ih.Predicate("P", nil, ir.Int())
	return []*ir.Rule{ih.Rule("r", nil, ih.Clause(ih.Apply(p, nil, ih.Int(1))))}
}

func TestSnapshots(t *testing.T) {
	s := tracer.NewSnapshots()
	require.NoError(t, s.Trace("a", rules()))
	require.NoError(t, s.Trace("b", nil))
	require.Equal(t, []string{"a", "b"}, s.Passes())
	require.Equal(t, []string{"rule r\n\tclause [] P(1)"}, s.Rules("a"))
	require.Empty(t, s.Rules("b"))
	require.Nil(t, s.Rules("c"))
	require.Equal(t, "a:\n\t1 rule r \tclause [] P(1)\nb: <empty>", s.String())
}

func TestLog(t *testing.T) {
	var lines []string
	log := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: tracer.LogVerbosity})
	require.NoError(t, tracer.Log(log).Trace("layout", rules()))
	require.Len(t, lines, 1)
	require.True(t, strings.Contains(lines[0], `"pass"="layout"`), lines[0])

	lines = nil
	quiet := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})
	require.NoError(t, tracer.Log(quiet).Trace("layout", rules()))
	require.Empty(t, lines)
}

func TestMulti(t *testing.T) {
	s := tracer.NewSnapshots()
	failing := trace.Func(func(string, []*ir.Rule) error {
		return errors.Errorf("failure")
	})
	err := tracer.Multi(failing, s).Trace("a", rules())
	require.Error(t, err)
	require.Equal(t, []string{"a"}, s.Passes())
}
