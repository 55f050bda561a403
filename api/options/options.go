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

// Package options specifies the options of the lowering pipeline.
package options

import (
	"bytes"
	"io"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/SecPriv/EtherTrust-sub001/api/trace"
	"github.com/SecPriv/EtherTrust-sub001/build/eval"
)

// DefaultFormatVersion is the version of the text format written by default.
const DefaultFormatVersion = "v1.0.0"

type (
	// Config of the pipeline.
	Config struct {
		// Bitwidth is the width of the integers used to compute bitwise operators.
		Bitwidth int `yaml:"bitwidth"`
		// MaxDomainSize is the maximum number of ground rules generated by a rule.
		// 0 means no limit.
		MaxDomainSize int `yaml:"maxDomainSize"`
		// SortByProgramCounter sorts the relations and the clauses of the output
		// by the integer suffix of the name of their predicate.
		SortByProgramCounter bool `yaml:"sortByProgramCounter"`
		// FoldBefore folds constants before the layout of custom types.
		FoldBefore bool `yaml:"foldBefore"`
		// FoldAfter folds constants after the layout of custom types.
		FoldAfter bool `yaml:"foldAfter"`
		// PruneDeadClauses removes clauses with a false premise.
		PruneDeadClauses bool `yaml:"pruneDeadClauses"`
		// FormatVersion is the version of the text format.
		FormatVersion string `yaml:"formatVersion"`

		// Logger receives the logs of the pipeline.
		Logger logr.Logger `yaml:"-"`
		// Trace is called with the rules after every pass.
		Trace trace.Callback `yaml:"-"`
	}

	// Option modifies a configuration.
	Option func(*Config)
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Bitwidth:             eval.DefaultBitwidth,
		SortByProgramCounter: true,
		FoldBefore:           true,
		FoldAfter:            true,
		PruneDeadClauses:     true,
		FormatVersion:        DefaultFormatVersion,
		Logger:               logr.Discard(),
	}
}

// New returns the default configuration modified by options.
func New(opts ...Option) (*Config, error) {
	return Default().With(opts...)
}

// ParseConfig decodes a configuration from YAML.
// Fields absent from the input keep their default value.
// Unknown fields are rejected.
func ParseConfig(data []byte, opts ...Option) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "cannot parse configuration")
	}
	return cfg.With(opts...)
}

// With returns a copy of the configuration modified by options.
// The resulting configuration is validated.
func (c *Config) With(opts ...Option) (*Config, error) {
	res := *c
	for _, opt := range opts {
		opt(&res)
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.Bitwidth <= 0 {
		return errors.Errorf("invalid bitwidth %d: must be positive", c.Bitwidth)
	}
	if c.MaxDomainSize < 0 {
		return errors.Errorf("invalid maximum domain size %d: must be positive or 0 for no limit", c.MaxDomainSize)
	}
	if !semver.IsValid(c.FormatVersion) {
		return errors.Errorf("invalid format version %q", c.FormatVersion)
	}
	if semver.Major(c.FormatVersion) != "v1" {
		return errors.Errorf("format version %s not supported: only v1 is supported", c.FormatVersion)
	}
	if c.PruneDeadClauses && !c.FoldBefore && !c.FoldAfter {
		return errors.Errorf("pruning dead clauses requires constant folding")
	}
	return nil
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithTrace sets the function called after every pass.
func WithTrace(cb trace.Callback) Option {
	return func(c *Config) {
		c.Trace = cb
	}
}

// WithBitwidth sets the width of bitwise operators.
func WithBitwidth(width int) Option {
	return func(c *Config) {
		c.Bitwidth = width
	}
}

// WithMaxDomainSize bounds the number of ground rules generated by a single rule.
func WithMaxDomainSize(size int) Option {
	return func(c *Config) {
		c.MaxDomainSize = size
	}
}

// WithSortByProgramCounter sets whether the output is sorted by program counter.
func WithSortByProgramCounter(sort bool) Option {
	return func(c *Config) {
		c.SortByProgramCounter = sort
	}
}

// WithFolding sets when constants are folded.
func WithFolding(before, after bool) Option {
	return func(c *Config) {
		c.FoldBefore = before
		c.FoldAfter = after
	}
}

// WithPruneDeadClauses sets whether clauses with a false premise are removed.
func WithPruneDeadClauses(prune bool) Option {
	return func(c *Config) {
		c.PruneDeadClauses = prune
	}
}

// WithFormatVersion sets the version of the text format.
func WithFormatVersion(version string) Option {
	return func(c *Config) {
		c.FormatVersion = version
	}
}
