// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Store is the subset of the ratings store the handlers use.
type Store interface {
	Ping(ctx context.Context) error
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpsertRating(ctx context.Context, userID, movieID int, rating float64) error
	GetUserRatings(ctx context.Context, userID int) ([]models.Rating, error)
	GetUserRatingForMovie(ctx context.Context, userID, movieID int) (*models.Rating, error)
	CountRatings(ctx context.Context, userID int) (int, error)
	GetUserBadges(ctx context.Context, userID int) ([]models.Badge, error)
}

// Catalog is the movie catalog.
type Catalog interface {
	Len() int
	MovieByID(id int) (models.Movie, bool)
	Search(query string, limit int) []models.Movie
	ByGenre(genre string, limit int) []models.Movie
	Random(rng *rand.Rand, n int) []models.Movie
	Genres() []string
}

// Recommender answers recommendation and taste-matching queries.
type Recommender interface {
	RecommendFor(ctx context.Context, userID, n int) ([]models.RecommendedMovie, error)
	FindSimilarUsers(ctx context.Context, userID, topN int) ([]models.SimilarUser, error)
	TopRated(ctx context.Context, userID, k int) ([]models.RatedMovie, error)
}

// BadgeEvaluator awards badges after a rating changes.
type BadgeEvaluator interface {
	Evaluate(ctx context.Context, userID int) ([]string, error)
}

// Accounts creates and authenticates users.
type Accounts interface {
	Signup(ctx context.Context, username, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// HandlerConfig tunes request defaults and gates.
type HandlerConfig struct {
	DefaultCount                 int
	DefaultSimilarUsers          int
	DefaultTopRated              int
	MinRatingsForRecommendations int
	MinRatingsForSimilarUsers    int

	// RecentRatings is how many recently rated movies the profile lists.
	RecentRatings int

	// DefaultBrowse is the size of the random catalog sample.
	DefaultBrowse int

	// RequestTimeout bounds recommendation and similarity requests.
	RequestTimeout time.Duration

	// SessionTimeout is the token cookie lifetime.
	SessionTimeout time.Duration
	SecureCookies  bool

	// BrowseSeed seeds the catalog sampler. 0 seeds from the clock.
	BrowseSeed int64
}

// DefaultHandlerConfig returns the production defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		DefaultCount:                 10,
		DefaultSimilarUsers:          10,
		DefaultTopRated:              10,
		MinRatingsForRecommendations: 3,
		MinRatingsForSimilarUsers:    5,
		RecentRatings:                12,
		DefaultBrowse:                20,
		RequestTimeout:               10 * time.Second,
		SessionTimeout:               24 * time.Hour,
	}
}

// HandlerConfigFromConfig maps application config onto handler settings.
func HandlerConfigFromConfig(cfg *config.Config) HandlerConfig {
	hc := DefaultHandlerConfig()
	rc := cfg.Recommend
	if rc.DefaultCount > 0 {
		hc.DefaultCount = rc.DefaultCount
	}
	if rc.DefaultSimilarUsers > 0 {
		hc.DefaultSimilarUsers = rc.DefaultSimilarUsers
	}
	if rc.MinRatingsForRecommendations > 0 {
		hc.MinRatingsForRecommendations = rc.MinRatingsForRecommendations
	}
	if rc.MinRatingsForSimilarUsers > 0 {
		hc.MinRatingsForSimilarUsers = rc.MinRatingsForSimilarUsers
	}
	if cfg.Security.SessionTimeout > 0 {
		hc.SessionTimeout = cfg.Security.SessionTimeout
	}
	hc.SecureCookies = cfg.IsProduction()
	hc.BrowseSeed = rc.SampleSeed
	return hc
}

// HandlerDeps groups the services a Handler calls.
type HandlerDeps struct {
	Store       Store
	Catalog     Catalog
	Recommender Recommender
	Badges      BadgeEvaluator
	Accounts    Accounts
}

// Handler serves the HTTP API.
type Handler struct {
	store       Store
	catalog     Catalog
	recommender Recommender
	badges      BadgeEvaluator
	accounts    Accounts
	config      HandlerConfig
	logger      zerolog.Logger

	model atomic.Pointer[recommend.ModelInfo]

	rngMu sync.Mutex
	rng   *rand.Rand

	startTime time.Time
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(deps HandlerDeps, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	seed := cfg.BrowseSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Handler{
		store:       deps.Store,
		catalog:     deps.Catalog,
		recommender: deps.Recommender,
		badges:      deps.Badges,
		accounts:    deps.Accounts,
		config:      cfg,
		logger:      logger.With().Str("component", "api").Logger(),
		rng:         rand.New(rand.NewSource(seed)), //nolint:gosec // browse sampling only
		startTime:   time.Now(),
	}
}

// SetModelInfo marks the model as trained. Readiness fails until it is called.
func (h *Handler) SetModelInfo(info recommend.ModelInfo) {
	h.model.Store(&info)
}

func (h *Handler) randomMovies(n int) []models.Movie {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return h.catalog.Random(h.rng, n)
}
