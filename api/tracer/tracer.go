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

// Package tracer implements callbacks to observe the passes of the pipeline.
package tracer

import (
	"strings"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"

	"github.com/SecPriv/EtherTrust-sub001/api/trace"
	hfmt "github.com/SecPriv/EtherTrust-sub001/base/fmt"
	"github.com/SecPriv/EtherTrust-sub001/base/ordered"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// LogVerbosity is the verbosity at which Log writes rules.
const LogVerbosity = 3

// Log returns a callback writing every rule to a logger.
func Log(log logr.Logger) trace.Callback {
	return trace.Func(func(pass string, rules []*ir.Rule) error {
		v := log.V(LogVerbosity)
		if !v.Enabled() {
			return nil
		}
		for _, r := range rules {
			v.Info("rule", "pass", pass, "rule", r.String())
		}
		return nil
	})
}

// Snapshots records the rules after every pass as strings.
// The rules are converted when the callback is called: later passes
// cannot change a snapshot.
type Snapshots struct {
	passes *ordered.Map[string, []string]
}

var _ trace.Callback = (*Snapshots)(nil)

// NewSnapshots returns a new callback recording snapshots.
func NewSnapshots() *Snapshots {
	return &Snapshots{passes: ordered.NewMap[string, []string]()}
}

// Trace records the rules of a pass.
func (s *Snapshots) Trace(pass string, rules []*ir.Rule) error {
	strs := make([]string, len(rules))
	for i, r := range rules {
		strs[i] = r.String()
	}
	s.passes.Store(pass, strs)
	return nil
}

// Passes returns the names of the recorded passes in order.
func (s *Snapshots) Passes() []string {
	var passes []string
	for pass := range s.passes.Keys() {
		passes = append(passes, pass)
	}
	return passes
}

// Rules returns the rules recorded for a pass.
func (s *Snapshots) Rules(pass string) []string {
	rules, _ := s.passes.Load(pass)
	return rules
}

// String returns a numbered listing of the rules of every pass.
func (s *Snapshots) String() string {
	var listings []string
	for pass, rules := range s.passes.Iter() {
		listings = append(listings, hfmt.Listing(pass, rules))
	}
	return strings.Join(listings, "\n")
}

// Multi returns a callback calling all callbacks in turn.
// All callbacks are called even if one of them fails.
func Multi(cbs ...trace.Callback) trace.Callback {
	return trace.Func(func(pass string, rules []*ir.Rule) error {
		var errs error
		for _, cb := range cbs {
			errs = multierr.Append(errs, cb.Trace(pass, rules))
		}
		return errs
	})
}
