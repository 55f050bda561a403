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

package values

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/SecPriv/EtherTrust-sub001/build/ir"
)

// Array returns an array value where every element is init except the
// elements given by overrides.
func Array(elem ir.Type, init any, overrides map[int64]any) (*ir.ArrayValue, error) {
	initVal, err := Of(init)
	if err != nil {
		return nil, err
	}
	if !initVal.Type().Equal(elem) {
		return nil, errors.Errorf("cannot use %s of type %s to initialise an array of %s", initVal, initVal.Type(), elem)
	}
	arr := ir.NewArrayValue(elem, initVal)
	for index, x := range overrides {
		val, err := Of(x)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", index)
		}
		if !val.Type().Equal(elem) {
			return nil, errors.Errorf("cannot store %s of type %s in an array of %s", val, val.Type(), elem)
		}
		arr = arr.Store(big.NewInt(index), val)
	}
	return arr, nil
}

func arrayToGo(arr *ir.ArrayValue) (any, error) {
	init, err := ToGo(arr.Init)
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]any)
	for _, entry := range arr.Overrides() {
		val, err := ToGo(entry.Val)
		if err != nil {
			return nil, err
		}
		overrides[entry.Index.String()] = val
	}
	return map[string]any{"init": init, "overrides": overrides}, nil
}
