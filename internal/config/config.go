// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Config is immutable after LoadWithKoanf() and safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Corpus     CorpusConfig     `koanf:"corpus"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	ModelCache ModelCacheConfig `koanf:"model_cache"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// Addr returns the listen address for the HTTP server.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings for the ratings store
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use NumCPU

	// CheckpointInterval is how often the WAL is flushed into the database
	// file. 0 disables periodic checkpoints.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// CorpusConfig points at the MovieLens dataset used for the catalog and training.
type CorpusConfig struct {
	// Path is a directory holding either ml-100k files (u.item, u.data)
	// or ml-latest/ml-32m files (movies.csv, ratings.csv).
	Path string `koanf:"path"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// TrainSeed seeds training subsampling and factor initialization.
	TrainSeed int64 `koanf:"train_seed"`

	// SampleSeed seeds candidate sampling. 0 seeds from the clock.
	SampleSeed int64 `koanf:"sample_seed"`

	// PredictionBudget bounds the candidate prediction loop of a single request.
	PredictionBudget time.Duration `koanf:"prediction_budget"`

	// SimilarityWorkers bounds concurrent rating fetches during similar-user search.
	SimilarityWorkers int `koanf:"similarity_workers"`

	// DefaultCount is the number of recommendations returned when the caller omits n.
	DefaultCount int `koanf:"default_count"`

	// DefaultSimilarUsers is the number of similar users returned when the caller omits top_n.
	DefaultSimilarUsers int `koanf:"default_similar_users"`

	// MinRatingsForRecommendations gates the recommendations endpoint.
	MinRatingsForRecommendations int `koanf:"min_ratings_for_recommendations"`

	// MinRatingsForSimilarUsers gates the similar-users endpoint.
	MinRatingsForSimilarUsers int `koanf:"min_ratings_for_similar_users"`
}

// ModelCacheConfig controls the BadgerDB snapshot of the trained model.
type ModelCacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// SecurityConfig holds authentication and HTTP hardening settings
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
