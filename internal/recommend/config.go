// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "time"

const (
	// MaxCandidates bounds the number of movies scored per RecommendFor call.
	MaxCandidates = 1000

	// DefaultPredictionBudget is the wall-clock limit on the prediction loop.
	DefaultPredictionBudget = 2 * time.Second

	// DefaultSimilarityWorkers bounds concurrent rating fetches in
	// FindSimilarUsers.
	DefaultSimilarityWorkers = 4
)

// ServiceConfig contains configuration for the recommendation service.
type ServiceConfig struct {
	// PredictionBudget bounds the time RecommendFor spends predicting.
	// Predictions completed before the budget runs out are returned.
	// Default: 2s.
	PredictionBudget time.Duration `json:"prediction_budget"`

	// SimilarityWorkers is the number of concurrent rating fetches during
	// similar-user search.
	// Default: 4.
	SimilarityWorkers int `json:"similarity_workers"`

	// SampleSeed seeds candidate sampling.
	// If zero, the seed is taken from the clock at construction.
	SampleSeed int64 `json:"sample_seed"`
}

// DefaultServiceConfig returns the default service configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PredictionBudget:  DefaultPredictionBudget,
		SimilarityWorkers: DefaultSimilarityWorkers,
	}
}

// withDefaults fills zero values with defaults.
func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.PredictionBudget <= 0 {
		c.PredictionBudget = DefaultPredictionBudget
	}
	if c.SimilarityWorkers <= 0 {
		c.SimilarityWorkers = DefaultSimilarityWorkers
	}
	if c.SampleSeed == 0 {
		c.SampleSeed = time.Now().UnixNano()
	}
	return c
}
