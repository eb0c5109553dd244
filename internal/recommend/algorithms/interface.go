// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrNoRatings is returned when Fit receives an empty rating table.
	ErrNoRatings = errors.New("no ratings to train on")

	// ErrInvalidRating is returned when a training row has a non-positive id
	// or a non-finite value.
	ErrInvalidRating = errors.New("invalid training rating")

	// ErrNotTrained is returned by Predict before Fit has succeeded.
	ErrNotTrained = errors.New("model not trained")

	// ErrAlreadyTrained is returned when Fit is called on a fitted model.
	ErrAlreadyTrained = errors.New("model already trained")

	// ErrNonFiniteEstimate is returned when a prediction is NaN or infinite.
	ErrNonFiniteEstimate = errors.New("non-finite estimate")
)

// Scale is the closed rating range observed in the training data.
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clip bounds v to the scale.
func (s Scale) Clip(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// ContextCancelled checks if the context has been cancelled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// cosineSimilarity computes cosine similarity between two vectors.
// Mismatched, empty or zero-norm inputs return 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
