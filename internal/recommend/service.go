// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// RatingsStore is the subset of the ratings store the service reads.
type RatingsStore interface {
	GetUserRatings(ctx context.Context, userID int) ([]models.Rating, error)
	GetUsersWithAtLeastOneRating(ctx context.Context) ([]models.UserRatingCount, error)
}

// Catalog resolves movie ids to metadata.
type Catalog interface {
	// MovieIDs returns every movie id in ascending order.
	MovieIDs() []int
	MovieByID(id int) (models.Movie, bool)
}

// Service answers recommendation and taste-matching queries.
type Service struct {
	predictor Predictor
	store     RatingsStore
	catalog   Catalog
	config    ServiceConfig
	logger    zerolog.Logger

	// rng is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time
}

// NewService creates a service over a trained predictor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(predictor Predictor, store RatingsStore, catalog Catalog, cfg ServiceConfig, logger zerolog.Logger) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		predictor: predictor,
		store:     store,
		catalog:   catalog,
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		rng:       rand.New(rand.NewSource(cfg.SampleSeed)), //nolint:gosec // math/rand is fine for candidate sampling
		now:       time.Now,
	}
}

// requestLogger derives a logger carrying request and correlation ids.
func (s *Service) requestLogger(ctx context.Context, op string, userID int) zerolog.Logger {
	lc := s.logger.With().Str("operation", op).Int("user_id", userID)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		lc = lc.Str("correlation_id", id)
	}
	return lc.Logger()
}

// sampleCandidates returns at most MaxCandidates of ids, keeping their order.
func (s *Service) sampleCandidates(ids []int) []int {
	if len(ids) <= MaxCandidates {
		return ids
	}

	s.rngMu.Lock()
	idx := algorithms.SampleIndices(s.rng, len(ids), MaxCandidates)
	s.rngMu.Unlock()

	sampled := make([]int, len(idx))
	for i, j := range idx {
		sampled[i] = ids[j]
	}
	return sampled
}

// RecommendFor predicts ratings for movies the user has not rated and
// returns the n highest, best first.
//
// At most MaxCandidates unrated movies are scored, sampled at random when
// more are available. Failed predictions are skipped. When the prediction
// budget runs out or ctx is cancelled the predictions completed so far are
// ranked and returned.
func (s *Service) RecommendFor(ctx context.Context, userID, n int) ([]models.RecommendedMovie, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRecommendOperation("recommend_for", time.Since(start))
	}()

	logger := s.requestLogger(ctx, "recommend_for", userID)
	if n <= 0 {
		return []models.RecommendedMovie{}, nil
	}

	ratings, err := s.store.GetUserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get ratings for user %d: %w", userID, err)
	}
	rated := make(map[int]struct{}, len(ratings))
	for _, r := range ratings {
		rated[r.MovieID] = struct{}{}
	}

	all := s.catalog.MovieIDs()
	unrated := make([]int, 0, len(all))
	for _, id := range all {
		if _, ok := rated[id]; !ok {
			unrated = append(unrated, id)
		}
	}
	candidates := s.sampleCandidates(unrated)

	deadline := s.now().Add(s.config.PredictionBudget)
	results := make([]models.RecommendedMovie, 0, len(candidates))
	failed := 0
	for i, movieID := range candidates {
		if ctx.Err() != nil {
			logger.Debug().Int("scored", i).Msg("recommendation cancelled, returning partial results")
			break
		}
		if s.now().After(deadline) {
			metrics.RecordBudgetExhausted()
			logger.Warn().
				Int("scored", i).
				Int("candidates", len(candidates)).
				Dur("budget", s.config.PredictionBudget).
				Msg("prediction budget exhausted, returning partial results")
			break
		}

		est, err := s.predictor.Predict(userID, movieID)
		metrics.RecordPrediction(err)
		if err != nil {
			failed++
			logger.Debug().Err(err).Int("movie_id", movieID).Msg("prediction failed, skipping")
			continue
		}

		movie, ok := s.catalog.MovieByID(movieID)
		if !ok {
			continue
		}
		results = append(results, models.RecommendedMovie{Movie: movie, PredictedRating: est})
	}

	// Candidates are in ascending id order, so ties keep that order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PredictedRating > results[j].PredictedRating
	})
	if len(results) > n {
		results = results[:n]
	}

	logger.Debug().
		Int("rated", len(rated)).
		Int("candidates", len(candidates)).
		Int("failed", failed).
		Int("returned", len(results)).
		Msg("recommendations computed")
	return results, nil
}

// FindSimilarUsers scores every other user with at least one rating against
// userID and returns the topN with a positive score, most similar first.
// A user with no ratings gets an empty result.
//
// Other users' ratings are fetched concurrently. A failed fetch is logged
// and that user skipped.
func (s *Service) FindSimilarUsers(ctx context.Context, userID, topN int) ([]models.SimilarUser, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRecommendOperation("find_similar_users", time.Since(start))
	}()

	logger := s.requestLogger(ctx, "find_similar_users", userID)

	target, err := s.ratingMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(target) == 0 || topN <= 0 {
		return []models.SimilarUser{}, nil
	}

	users, err := s.store.GetUsersWithAtLeastOneRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rating users: %w", err)
	}

	// scores[i] belongs to users[i]; 0 means not similar or skipped.
	scores := make([]float64, len(users))

	var g errgroup.Group
	g.SetLimit(s.config.SimilarityWorkers)
	for i := range users {
		if users[i].UserID == userID {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			other, err := s.ratingMap(ctx, users[i].UserID)
			if err != nil {
				metrics.RecordSimilarityFetchError()
				logger.Warn().Err(err).Int("other_user_id", users[i].UserID).Msg("skipping user in similarity search")
				return nil
			}
			scores[i] = algorithms.UserSimilarity(target, other)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	similar := make([]models.SimilarUser, 0)
	for i, u := range users {
		if scores[i] <= 0 {
			continue
		}
		similar = append(similar, models.SimilarUser{
			UserID:      u.UserID,
			Username:    u.Username,
			Similarity:  scores[i],
			RatingCount: u.RatingCount,
		})
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})
	if len(similar) > topN {
		similar = similar[:topN]
	}

	logger.Debug().
		Int("compared", len(users)).
		Int("returned", len(similar)).
		Msg("similar users computed")
	return similar, nil
}

// Similarity returns the similarity score between two users.
func (s *Service) Similarity(ctx context.Context, userA, userB int) (float64, error) {
	a, err := s.ratingMap(ctx, userA)
	if err != nil {
		return 0, err
	}
	b, err := s.ratingMap(ctx, userB)
	if err != nil {
		return 0, err
	}
	return algorithms.UserSimilarity(a, b), nil
}

// TopRated returns up to k of the user's highest rated movies that exist in
// the catalog. Equal ratings keep the store's newest-first order.
func (s *Service) TopRated(ctx context.Context, userID, k int) ([]models.RatedMovie, error) {
	if k <= 0 {
		return []models.RatedMovie{}, nil
	}

	ratings, err := s.store.GetUserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get ratings for user %d: %w", userID, err)
	}
	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].Value > ratings[j].Value
	})

	top := make([]models.RatedMovie, 0, k)
	for _, r := range ratings {
		movie, ok := s.catalog.MovieByID(r.MovieID)
		if !ok {
			s.logger.Debug().Int("user_id", userID).Int("movie_id", r.MovieID).Msg("rated movie missing from catalog, skipping")
			continue
		}
		top = append(top, models.RatedMovie{Movie: movie, Rating: r.Value, RatedAt: r.RatedAt})
		if len(top) == k {
			break
		}
	}
	return top, nil
}

// ratingMap fetches a user's ratings keyed by movie id.
func (s *Service) ratingMap(ctx context.Context, userID int) (map[int]float64, error) {
	ratings, err := s.store.GetUserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get ratings for user %d: %w", userID, err)
	}
	m := make(map[int]float64, len(ratings))
	for _, r := range ratings {
		m[r.MovieID] = r.Value
	}
	return m, nil
}
