// Copyright 2024 The starkproof authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package trie

import (
	"math/big"

	"github.com/starkproof/starkproof/felt"
)

// Keys address a 251-bit path space: bit 250 is the first bit a walk from
// the root inspects, bit 0 the last.

// extractBits returns the length bits of v that end at position startIndex,
// right-aligned. extractBits(v, 250, 251) is v's full path.
func extractBits(v *big.Int, startIndex, length int) *big.Int {
	out := new(big.Int).Rsh(v, uint(startIndex-length+1))
	return out.And(out, bitMask(length))
}

// bitsEqual reports whether the length bits of a ending at startIndex equal
// the low length bits of b. Callers must have 1 ≤ length ≤ startIndex+1 and
// startIndex ≤ 250; the terminal case startIndex-length+1 == 0 consumes a's
// final bit.
func bitsEqual(a, b *big.Int, startIndex, length int) bool {
	if length <= 0 || startIndex >= felt.Bits || startIndex-length+1 < 0 {
		return false
	}
	got := extractBits(a, startIndex, length)
	want := new(big.Int).And(b, bitMask(length))
	return got.Cmp(want) == 0
}

func bitMask(length int) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(length))
	return mask.Sub(mask, big.NewInt(1))
}
