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

package values_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SecPriv/EtherTrust-sub001/api/values"
	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

func TestOf(t *testing.T) {
	tests := []struct {
		x    any
		want string
	}{
		{x: true, want: "true"},
		{x: 42, want: "42"},
		{x: int8(-3), want: "-3"},
		{x: uint64(math.MaxUint64), want: "18446744073709551615"},
		{x: new(big.Int).Lsh(big.NewInt(1), 100), want: "1267650600228229401496703205376"},
		{x: ir.IntVal(7), want: "7"},
	}
	for _, test := range tests {
		got, err := values.Of(test.x)
		if err != nil {
			t.Fatalf("%v: %v", test.x, err)
		}
		if got.String() != test.want {
			t.Errorf("%v: got %s but want %s", test.x, got, test.want)
		}
	}
	if _, err := values.Of(1.5); err == nil {
		t.Errorf("converting a float: expected an error")
	}
}

func TestRows(t *testing.T) {
	rows, err := values.Rows([]any{1, true}, []any{2, false})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, row := range rows {
		for _, val := range row {
			got = append(got, val.String())
		}
	}
	if diff := cmp.Diff(got, []string{"1", "true", "2", "false"}); diff != "" {
		t.Errorf("unexpected rows:\n%s", diff)
	}
	if _, err := values.Rows([]any{1}, []any{"a"}); err == nil {
		t.Errorf("converting a string: expected an error")
	}
}

func TestArray(t *testing.T) {
	arr, err := values.Array(ir.Int(), 0, map[int64]any{3: 4, 1: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := arr.String(), "[0;1:2;3:4]"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	goVal, err := values.ToGo(arr)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"init":      big.NewInt(0),
		"overrides": map[string]any{"1": big.NewInt(2), "3": big.NewInt(4)},
	}
	if diff := cmp.Diff(goVal, want, cmp.Comparer(func(x, y *big.Int) bool { return x.Cmp(y) == 0 })); diff != "" {
		t.Errorf("unexpected Go value:\n%s", diff)
	}
	if _, err := values.Array(ir.Int(), true, nil); err == nil {
		t.Errorf("initialising an array of integers with a boolean: expected an error")
	}
}
