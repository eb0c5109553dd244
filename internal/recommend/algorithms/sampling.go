// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"math/bits"
	"math/rand"
)

// SampleIndices returns k distinct indices drawn uniformly from [0, n),
// in ascending order. When k >= n every index is returned.
//
// Floyd's algorithm draws exactly k values from rng, so the result depends
// only on (n, k) and the state of rng. Membership is tracked in a bitset,
// which keeps memory at n/8 bytes even for tens of millions of rows.
func SampleIndices(rng *rand.Rand, n, k int) []int {
	if n <= 0 || k <= 0 {
		return []int{}
	}
	if k >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}

	set := make([]uint64, (n+63)/64)
	for j := n - k; j < n; j++ {
		t := rng.Intn(j + 1)
		if set[t>>6]&(1<<(uint(t)&63)) != 0 {
			t = j
		}
		set[t>>6] |= 1 << (uint(t) & 63)
	}

	out := make([]int, 0, k)
	for w, word := range set {
		for word != 0 {
			out = append(out, w*64+bits.TrailingZeros64(word))
			word &= word - 1
		}
	}
	return out
}
