// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

// snapshotStore is the part of storage.Store used for the model cache.
type snapshotStore interface {
	Save(ctx context.Context, key string, data interface{}, meta storage.ModelMetadata) error
	Load(ctx context.Context, key string, target interface{}) (*storage.ModelMetadata, error)
	Prune(ctx context.Context, keep int) (int, error)
}

// loadOrTrainModel restores the model for table from the snapshot cache,
// or trains it and writes a fresh snapshot. A nil cache always trains.
// Cache failures are logged and never fatal; training failures are.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func loadOrTrainModel(ctx context.Context, table []models.HistoricalRating, seed int64, cache snapshotStore, logger zerolog.Logger) (*recommend.Model, error) {
	if seed == 0 {
		seed = recommend.DefaultTrainSeed
	}
	key := recommend.Fingerprint(table, seed)
	log := logger.With().Str("component", "model-init").Str("fingerprint", key).Logger()

	if cache != nil {
		var snap recommend.Snapshot
		meta, err := cache.Load(ctx, key, &snap)
		switch {
		case err == nil:
			model, restoreErr := recommend.ModelFromSnapshot(&snap)
			if restoreErr == nil {
				log.Info().
					Time("trained_at", meta.TrainedAt).
					Int64("size_bytes", meta.SizeBytes).
					Msg("model restored from snapshot cache")
				return model, nil
			}
			log.Warn().Err(restoreErr).Msg("cached snapshot unusable, retraining")
		case errors.Is(err, storage.ErrModelNotFound):
			log.Info().Msg("no cached model for this corpus, training")
		default:
			log.Warn().Err(err).Msg("model cache lookup failed, training")
		}
	}

	model, err := recommend.Train(ctx, table, recommend.TrainOptions{Seed: seed, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}

	if cache != nil {
		saveSnapshot(ctx, cache, key, model, log)
	}
	return model, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func saveSnapshot(ctx context.Context, cache snapshotStore, key string, model *recommend.Model, log zerolog.Logger) {
	snap, err := model.Snapshot()
	if err != nil {
		log.Warn().Err(err).Msg("failed to export model snapshot")
		return
	}

	info := model.Info()
	meta := storage.ModelMetadata{
		Name:               "svd",
		TrainedAt:          info.TrainedAt,
		RatingCount:        info.TrainingRows,
		UserCount:          info.Users,
		ItemCount:          info.Movies,
		TrainingDurationMS: info.TrainingDuration.Milliseconds(),
	}
	if err := cache.Save(ctx, key, snap, meta); err != nil {
		log.Warn().Err(err).Msg("failed to cache model snapshot")
		return
	}

	pruned, err := cache.Prune(ctx, storage.DefaultKeepModels)
	if err != nil {
		log.Warn().Err(err).Msg("failed to prune old model snapshots")
		return
	}
	log.Info().Int("pruned", pruned).Msg("model snapshot cached")
}
