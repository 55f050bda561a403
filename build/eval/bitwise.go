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

package eval

import "math/big"

// Bitwise evaluates the bit-level operators.
//
// Solvers interpret bit-level operators on integers in different ways.
// The evaluator is kept separate from the integer arithmetic so that
// constant folding matches the semantics of the target solver.
type Bitwise interface {
	And(x, y *big.Int) *big.Int
	Or(x, y *big.Int) *big.Int
	Xor(x, y *big.Int) *big.Int
	Not(x *big.Int) *big.Int
}

// DefaultBitwidth is the width of the default bitwise evaluator.
const DefaultBitwidth = 256

// FixedWidth evaluates bitwise operators on unsigned integers of a fixed width:
// operands are first reduced modulo 2^width.
type FixedWidth struct {
	width uint
	mod   *big.Int
	mask  *big.Int
}

var _ Bitwise = (*FixedWidth)(nil)

// NewFixedWidth returns a bitwise evaluator for integers of a given number of bits.
func NewFixedWidth(width uint) *FixedWidth {
	mod := new(big.Int).Lsh(big.NewInt(1), width)
	return &FixedWidth{
		width: width,
		mod:   mod,
		mask:  new(big.Int).Sub(mod, big.NewInt(1)),
	}
}

// Width returns the number of bits.
func (b *FixedWidth) Width() uint {
	return b.width
}

func (b *FixedWidth) reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, b.mod)
}

// And returns x & y.
func (b *FixedWidth) And(x, y *big.Int) *big.Int {
	return new(big.Int).And(b.reduce(x), b.reduce(y))
}

// Or returns x | y.
func (b *FixedWidth) Or(x, y *big.Int) *big.Int {
	return new(big.Int).Or(b.reduce(x), b.reduce(y))
}

// Xor returns x ^ y.
func (b *FixedWidth) Xor(x, y *big.Int) *big.Int {
	return new(big.Int).Xor(b.reduce(x), b.reduce(y))
}

// Not flips the width bits of x.
func (b *FixedWidth) Not(x *big.Int) *big.Int {
	return new(big.Int).Xor(b.reduce(x), b.mask)
}
