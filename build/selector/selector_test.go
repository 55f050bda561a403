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

package selector_test

import (
	"iter"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/fmterr"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
	"github.com/SecPriv/EtherTrust-sub001/build/selector"
)

func collect(t *testing.T, seq iter.Seq2[[]ir.Value, error]) ([]string, error) {
	t.Helper()
	var got []string
	for tuple, err := range seq {
		if err != nil {
			return got, err
		}
		parts := make([]string, len(tuple))
		for i, v := range tuple {
			parts[i] = v.String()
		}
		got = append(got, strings.Join(parts, ","))
	}
	return got, nil
}

func TestBuiltins(t *testing.T) {
	r := selector.Builtins()
	tests := []struct {
		fn   *ir.SelectorFunction
		args []ir.Value
		want []string
	}{
		{fn: selector.IntervalN, args: []ir.Value{ir.IntVal(3)}, want: []string{"0", "1", "2"}},
		{fn: selector.IntervalN, args: []ir.Value{ir.IntVal(-1)}},
		{fn: selector.IntervalRange, args: []ir.Value{ir.IntVal(-1), ir.IntVal(2)}, want: []string{"-1", "0", "1"}},
		{fn: selector.Bools, want: []string{"false", "true"}},
	}
	for _, test := range tests {
		got, err := collect(t, r.Invoke(test.fn, test.args))
		if err != nil {
			t.Errorf("%s: %v", test.fn, err)
			continue
		}
		if diff := cmp.Diff(got, test.want); diff != "" {
			t.Errorf("%s%v: unexpected tuples:\n%s", test.fn, test.args, diff)
		}
	}
}

var pairs = &ir.SelectorFunction{
	Name:        "pairs",
	ReturnTypes: []ir.Type{ir.Int(), ir.Bool()},
}

func TestTableAndStream(t *testing.T) {
	r := selector.NewRegistry()
	if err := r.Register(pairs, selector.Table(
		[]ir.Value{ir.IntVal(1), ir.BoolVal(true)},
		[]ir.Value{ir.IntVal(2), ir.BoolVal(false)},
	)); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(pairs, selector.Table()); err == nil {
		t.Errorf("expected an error when registering %s twice", pairs)
	}
	got, err := collect(t, r.Invoke(pairs, nil))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, []string{"1,true", "2,false"}); diff != "" {
		t.Errorf("unexpected tuples:\n%s", diff)
	}

	naturals := &ir.SelectorFunction{Name: "naturals", ReturnTypes: []ir.Type{ir.Int()}}
	if err := r.Register(naturals, selector.Stream(func([]ir.Value) iter.Seq[[]ir.Value] {
		return func(yield func([]ir.Value) bool) {
			for i := int64(0); ; i++ {
				if !yield([]ir.Value{ir.IntVal(i)}) {
					return
				}
			}
		}
	})); err != nil {
		t.Fatal(err)
	}
	sum := big.NewInt(0)
	for tuple, err := range r.Invoke(naturals, nil) {
		if err != nil {
			t.Fatal(err)
		}
		n := tuple[0].(*ir.IntValue).Val
		if n.Cmp(big.NewInt(100)) > 0 {
			break
		}
		sum.Add(sum, n)
	}
	if sum.Int64() != 5050 {
		t.Errorf("got %s but want 5050", sum)
	}
}

func TestHostFailures(t *testing.T) {
	failing := &ir.SelectorFunction{Name: "failing", ReturnTypes: []ir.Type{ir.Int()}}
	panicking := &ir.SelectorFunction{Name: "panicking", ReturnTypes: []ir.Type{ir.Int()}}
	r := selector.NewRegistry()
	if err := r.Register(failing, func([]ir.Value) iter.Seq2[[]ir.Value, error] {
		return func(yield func([]ir.Value, error) bool) {
			if !yield([]ir.Value{ir.IntVal(0)}, nil) {
				return
			}
			yield(nil, errors.New("table not found"))
		}
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(panicking, func([]ir.Value) iter.Seq2[[]ir.Value, error] {
		panic("out of memory")
	}); err != nil {
		t.Fatal(err)
	}
	for _, fn := range []*ir.SelectorFunction{failing, panicking} {
		_, err := collect(t, r.Invoke(fn, nil))
		if err == nil {
			t.Fatalf("%s: expected an error", fn)
		}
		if !fmterr.IsHost(err) {
			t.Errorf("%s: error %v is not a host error", fn, err)
		}
		if !strings.Contains(err.Error(), fn.Signature()) {
			t.Errorf("%s: error %q does not name the selector function", fn, err.Error())
		}
	}
	unknown := &ir.SelectorFunction{Name: "unknown"}
	if _, err := collect(t, r.Invoke(unknown, nil)); !fmterr.IsInternal(err) {
		t.Errorf("got error %v but want an internal error", err)
	}
}
