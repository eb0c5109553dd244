// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package achievement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// Store reads ratings and records badges. AddBadge must report false,
// without error, when the user already holds the badge.
type Store interface {
	GetUserRatings(ctx context.Context, userID int) ([]models.Rating, error)
	AddBadge(ctx context.Context, userID int, name, description string) (bool, error)
}

// Catalog resolves movie genres.
type Catalog interface {
	MovieByID(id int) (models.Movie, bool)
}

// Evaluator awards badges from a user's current ratings.
type Evaluator struct {
	store   Store
	catalog Catalog
	genres  []string
	logger  zerolog.Logger
}

// NewEvaluator creates an evaluator that considers genre badges for the
// canonical MovieLens genres.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEvaluator(store Store, catalog Catalog, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		store:   store,
		catalog: catalog,
		genres:  models.Genres,
		logger:  logger.With().Str("component", "achievement").Logger(),
	}
}

// ComputeStats aggregates ratings. Movies missing from the catalog count
// toward Count and Mean but contribute no genres.
func ComputeStats(ratings []models.Rating, catalog Catalog) Stats {
	stats := Stats{
		Count:       len(ratings),
		GenreCounts: make(map[string]int),
	}
	if len(ratings) == 0 {
		return stats
	}

	var sum float64
	for _, r := range ratings {
		sum += r.Value
		movie, ok := catalog.MovieByID(r.MovieID)
		if !ok {
			continue
		}
		for _, g := range movie.Genres {
			stats.GenreCounts[g]++
		}
	}
	stats.Mean = sum / float64(len(ratings))
	return stats
}

// Evaluate checks every rule against the user's ratings and returns the
// names of badges awarded by this call. Badges the user already holds are
// not returned, so an unchanged rating history yields nothing new.
func (e *Evaluator) Evaluate(ctx context.Context, userID int) ([]string, error) {
	ratings, err := e.store.GetUserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get ratings for user %d: %w", userID, err)
	}

	stats := ComputeStats(ratings, e.catalog)
	awarded := make([]string, 0)
	for _, award := range Qualifying(stats, e.genres) {
		added, err := e.store.AddBadge(ctx, userID, award.Name, award.Description)
		if err != nil {
			return awarded, fmt.Errorf("award %q to user %d: %w", award.Name, userID, err)
		}
		if !added {
			continue
		}
		awarded = append(awarded, award.Name)
		metrics.RecordBadgeAwarded(award.Kind.String())
		e.logger.Info().
			Int("user_id", userID).
			Str("badge", award.Name).
			Str("rule", award.Kind.String()).
			Msg("badge awarded")
	}
	return awarded, nil
}
