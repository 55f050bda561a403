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

// Package values converts Go values from and to primitive values of the IR.
//
// Host code implementing selector functions can use the package to build
// tuples from native Go values.
package values

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// Of converts a Go value into an IR value.
// Supported Go types are: bool, signed and unsigned integers, *big.Int, and ir.Value.
func Of(x any) (ir.Value, error) {
	switch xT := x.(type) {
	case ir.Value:
		return xT, nil
	case bool:
		return ir.BoolVal(xT), nil
	case int:
		return ir.IntVal(int64(xT)), nil
	case int8:
		return ir.IntVal(int64(xT)), nil
	case int16:
		return ir.IntVal(int64(xT)), nil
	case int32:
		return ir.IntVal(int64(xT)), nil
	case int64:
		return ir.IntVal(xT), nil
	case uint:
		return bigValue(new(big.Int).SetUint64(uint64(xT))), nil
	case uint8:
		return ir.IntVal(int64(xT)), nil
	case uint16:
		return ir.IntVal(int64(xT)), nil
	case uint32:
		return ir.IntVal(int64(xT)), nil
	case uint64:
		return bigValue(new(big.Int).SetUint64(xT)), nil
	case *big.Int:
		if xT == nil {
			return nil, errors.Errorf("cannot convert a nil *big.Int")
		}
		return bigValue(new(big.Int).Set(xT)), nil
	}
	return nil, errors.Errorf("cannot convert %T into a value", x)
}

func bigValue(x *big.Int) *ir.IntValue {
	return &ir.IntValue{Val: x}
}

// Tuple converts Go values into a tuple of IR values.
func Tuple(xs ...any) ([]ir.Value, error) {
	tuple := make([]ir.Value, len(xs))
	for i, x := range xs {
		var err error
		if tuple[i], err = Of(x); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
	}
	return tuple, nil
}

// Rows converts rows of Go values into tuples of IR values.
func Rows(rows ...[]any) ([][]ir.Value, error) {
	tuples := make([][]ir.Value, len(rows))
	for i, row := range rows {
		var err error
		if tuples[i], err = Tuple(row...); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
	}
	return tuples, nil
}

// ToGo converts an IR value into a Go value:
// *big.Int for integers, bool for booleans, and map[string]any for arrays
// with the keys "init" and "overrides".
func ToGo(v ir.Value) (any, error) {
	switch vT := v.(type) {
	case *ir.IntValue:
		return new(big.Int).Set(vT.Val), nil
	case *ir.BoolValue:
		return vT.Val, nil
	case *ir.ArrayValue:
		return arrayToGo(vT)
	}
	return nil, errors.Errorf("cannot convert value %s of type %s", v, v.Type())
}
