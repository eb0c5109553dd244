// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"math"
	"sort"
)

// MinCommonMovies is the number of shared movies below which two users are
// scored 0.
const MinCommonMovies = 3

// UserSimilarity returns the cosine similarity of two users' ratings over the
// movies both have rated, scaled to a percentage and rounded to one decimal.
// Both maps are keyed by movie id.
//
// Common movies are visited in ascending id order for both vectors, so the
// result is symmetric. Fewer than MinCommonMovies common movies, zero-norm
// vectors and non-finite results all score 0.
func UserSimilarity(a, b map[int]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	common := make([]int, 0, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			common = append(common, id)
		}
	}
	if len(common) < MinCommonMovies {
		return 0
	}
	sort.Ints(common)

	va := make([]float64, len(common))
	vb := make([]float64, len(common))
	for i, id := range common {
		va[i] = a[id]
		vb[i] = b[id]
	}

	cos := cosineSimilarity(va, vb)
	if !isFinite(cos) {
		return 0
	}
	return math.Round(cos*1000) / 10
}
