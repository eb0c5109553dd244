// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package main is the entry point for the Cinematch server.
//
// Cinematch serves a MovieLens catalog, stores user ratings in DuckDB,
// recommends movies from a latent-factor model trained on the MovieLens
// ratings and matches users with similar taste.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Corpus: load the catalog and historical ratings (ml-100k or ml-latest layout)
//  3. Model: restore from the BadgerDB snapshot cache or train and cache
//  4. Database: open the DuckDB ratings store
//  5. Services: recommendation service, badge evaluator, accounts
//  6. Supervisor: DuckDB checkpointer and HTTP server under suture
//
// Training happens before the HTTP server starts; a model that fails to
// train stops the process.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor context. The HTTP server stops
// accepting connections and drains in-flight requests, the checkpointer
// flushes the WAL once more and the database is closed.
//
// # Example
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export CORPUS_PATH=/data/ml-100k
//	./cinematch
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/achievement"
	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/corpus"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logging.Logger()); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Cinematch stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component and blocks until ctx is cancelled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("corpus", cfg.Corpus.Path).
		Str("db_path", cfg.Database.Path).
		Bool("model_cache", cfg.ModelCache.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Cinematch")

	catalog, err := corpus.Load(ctx, corpus.Config{Path: cfg.Corpus.Path}, logger)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	model, err := initModel(ctx, cfg, catalog.HistoricalRatings(), logger)
	if err != nil {
		return err
	}

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	recommender := recommend.NewService(model, db, catalog, recommend.ServiceConfig{
		PredictionBudget:  cfg.Recommend.PredictionBudget,
		SimilarityWorkers: cfg.Recommend.SimilarityWorkers,
		SampleSeed:        cfg.Recommend.SampleSeed,
	}, logger)

	handler := api.NewHandler(api.HandlerDeps{
		Store:       db,
		Catalog:     catalog,
		Recommender: recommender,
		Badges:      achievement.NewEvaluator(db, catalog, logger),
		Accounts:    auth.NewService(db, jwtManager, cfg.Security.BcryptCost, logger),
	}, api.HandlerConfigFromConfig(cfg), logger)
	handler.SetModelInfo(model.Info())

	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout + 5*time.Second
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	logger.Info().Str("addr", server.Addr).Msg("HTTP server starting")

	var serveErr error
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		serveErr = err
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return serveErr
}

// initModel loads or trains the rating model, using the snapshot cache when
// enabled. The cache is closed before returning; it is only read at startup.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initModel(ctx context.Context, cfg *config.Config, table []models.HistoricalRating, logger zerolog.Logger) (*recommend.Model, error) {
	var cache snapshotStore
	if cfg.ModelCache.Enabled {
		store, err := storage.NewStore(storage.Config{Path: cfg.ModelCache.Path}, logger)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.ModelCache.Path).Msg("Model cache unavailable, training without it")
		} else {
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn().Err(err).Msg("Error closing model cache")
				}
			}()
			cache = store
		}
	}

	model, err := loadOrTrainModel(ctx, table, cfg.Recommend.TrainSeed, cache, logger)
	if err != nil {
		return nil, err
	}

	info := model.Info()
	logger.Info().
		Str("fingerprint", info.Fingerprint).
		Int("factors", info.Factors).
		Int("users", info.Users).
		Int("movies", info.Movies).
		Msg("Model ready")
	return model, nil
}
