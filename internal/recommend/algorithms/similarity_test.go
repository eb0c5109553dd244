// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"math/rand"
	"testing"
)

func TestUserSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    map[int]float64
		b    map[int]float64
		want float64
	}{
		{
			name: "identical tastes on common movies",
			a:    map[int]float64{1: 5, 2: 4, 3: 3},
			b:    map[int]float64{1: 5, 2: 4, 3: 3, 4: 2},
			want: 100,
		},
		{
			name: "two common movies is below threshold",
			a:    map[int]float64{1: 5, 2: 4, 3: 3},
			b:    map[int]float64{1: 5, 2: 4, 9: 3},
			want: 0,
		},
		{
			name: "no common movies",
			a:    map[int]float64{1: 5, 2: 4, 3: 3},
			b:    map[int]float64{4: 5, 5: 4, 6: 3},
			want: 0,
		},
		{
			name: "empty input",
			a:    map[int]float64{},
			b:    map[int]float64{1: 5, 2: 4, 3: 3},
			want: 0,
		},
		{
			name: "opposed tastes",
			// dot = 5+9+5 = 19, |a|² = |b|² = 35, 19/35 = 0.542857...
			a:    map[int]float64{1: 5, 2: 3, 3: 1},
			b:    map[int]float64{1: 1, 2: 3, 3: 5},
			want: 54.3,
		},
		{
			name: "zero vector",
			a:    map[int]float64{1: 0, 2: 0, 3: 0},
			b:    map[int]float64{1: 5, 2: 4, 3: 3},
			want: 0,
		},
		{
			name: "scaled vectors are identical in direction",
			a:    map[int]float64{1: 1, 2: 2, 3: 2},
			b:    map[int]float64{1: 2, 2: 4, 3: 4},
			want: 100,
		},
		{
			name: "negative cosine is reported",
			a:    map[int]float64{1: 1, 2: -1, 3: 1},
			b:    map[int]float64{1: -1, 2: 1, 3: -1},
			want: -100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := UserSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("UserSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserSimilaritySymmetric(t *testing.T) {
	t.Parallel()

	//nolint:gosec // G404: deterministic test data
	rng := rand.New(rand.NewSource(7))
	values := []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}

	for trial := 0; trial < 200; trial++ {
		a := make(map[int]float64)
		b := make(map[int]float64)
		for movie := 1; movie <= 30; movie++ {
			if rng.Intn(2) == 0 {
				a[movie] = values[rng.Intn(len(values))]
			}
			if rng.Intn(2) == 0 {
				b[movie] = values[rng.Intn(len(values))]
			}
		}

		ab := UserSimilarity(a, b)
		ba := UserSimilarity(b, a)
		if ab != ba {
			t.Fatalf("trial %d: UserSimilarity(a, b) = %v, UserSimilarity(b, a) = %v", trial, ab, ba)
		}
		if ab < -100 || ab > 100 {
			t.Fatalf("trial %d: UserSimilarity() = %v outside [-100, 100]", trial, ab)
		}
	}
}

func TestScaleClip(t *testing.T) {
	t.Parallel()

	s := Scale{Min: 1, Max: 5}
	tests := []struct {
		in, want float64
	}{
		{0.2, 1},
		{1, 1},
		{3.7, 3.7},
		{5, 5},
		{6.1, 5},
	}
	for _, tt := range tests {
		if got := s.Clip(tt.in); got != tt.want {
			t.Errorf("Clip(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
