// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mathutil provides small numeric helpers shared by the chain
// accumulator packages.
package mathutil

import "math/bits"

// Log2Floor32 returns floor(log2(v)) for v > 0 and 0 for v == 0.
func Log2Floor32(v uint32) int {
	if v == 0 {
		return 0
	}
	return bits.Len32(v) - 1
}

// Log2Floor returns floor(log2(v)) for v > 0 and 0 for v == 0.
//
// An earlier draft computed this by scanning a fixed-size lookup table from
// the top bit downward, which overshoots the table for the 64-bit case and
// returns a wrong answer for the highest representable values. This
// implementation sidesteps the bug entirely by deriving the answer from the
// bit length of v.
func Log2Floor(v uint64) int {
	if v == 0 {
		return 0
	}
	return bits.Len64(v) - 1
}

// PeakHeight returns the height of the MMR peak whose subtree contains the
// leaf at position idx, given a tree that currently holds total leaves.
//
// This is floor(log2(idx XOR total)), the standard MMR "which peak owns this
// leaf" computation.
func PeakHeight(idx, total uint64) int {
	return Log2Floor(idx ^ total)
}

// NumPeaksBefore returns the number of MMR peaks present when the tree holds
// idx leaves, i.e. the population count of idx.
func NumPeaksBefore(idx uint64) int {
	return bits.OnesCount64(idx)
}
