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

package options_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SecPriv/EtherTrust-sub001/api/options"
)

func TestDefault(t *testing.T) {
	cfg, err := options.New()
	require.NoError(t, err)
	require.Equal(t, 256, cfg.Bitwidth)
	require.Equal(t, 0, cfg.MaxDomainSize)
	require.True(t, cfg.SortByProgramCounter)
	require.True(t, cfg.FoldBefore)
	require.True(t, cfg.FoldAfter)
	require.True(t, cfg.PruneDeadClauses)
	require.Equal(t, "v1.0.0", cfg.FormatVersion)
}

func TestParseConfig(t *testing.T) {
	cfg, err := options.ParseConfig([]byte(`
bitwidth: 64
maxDomainSize: 1000
sortByProgramCounter: false
foldBefore: false
formatVersion: v1.3.0
`), options.WithPruneDeadClauses(false))
	require.NoError(t, err)
	require.Equal(t, 64, cfg.Bitwidth)
	require.Equal(t, 1000, cfg.MaxDomainSize)
	require.False(t, cfg.SortByProgramCounter)
	require.False(t, cfg.FoldBefore)
	require.True(t, cfg.FoldAfter)
	require.False(t, cfg.PruneDeadClauses)
	require.Equal(t, "v1.3.0", cfg.FormatVersion)

	empty, err := options.ParseConfig(nil)
	require.NoError(t, err)
	require.Equal(t, options.Default().Bitwidth, empty.Bitwidth)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		opts []options.Option
	}{
		{name: "unknown field", yaml: "bitWidth: 3"},
		{name: "not yaml", yaml: "bitwidth: [1"},
		{name: "negative bitwidth", yaml: "bitwidth: -1"},
		{name: "negative domain", opts: []options.Option{options.WithMaxDomainSize(-2)}},
		{name: "invalid version", yaml: "formatVersion: 1.0"},
		{name: "unsupported version", opts: []options.Option{options.WithFormatVersion("v2.0.0")}},
		{name: "prune without folding", opts: []options.Option{options.WithFolding(false, false)}},
	}
	for _, test := range tests {
		_, err := options.ParseConfig([]byte(test.yaml), test.opts...)
		require.Error(t, err, test.name)
	}
}

func TestWithDoesNotModify(t *testing.T) {
	cfg := options.Default()
	other, err := cfg.With(options.WithBitwidth(8))
	require.NoError(t, err)
	require.Equal(t, 8, other.Bitwidth)
	require.Equal(t, 256, cfg.Bitwidth)
}
