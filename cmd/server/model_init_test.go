// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

func smallTable() []models.HistoricalRating {
	table := make([]models.HistoricalRating, 0, 60)
	for u := int32(1); u <= 10; u++ {
		for m := int32(1); m <= 6; m++ {
			table = append(table, models.HistoricalRating{
				UserID:  u,
				MovieID: m,
				Value:   float32(1 + (u+m)%5),
			})
		}
	}
	return table
}

func TestLoadOrTrainModelCachesSnapshot(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewStore(storage.Config{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	table := smallTable()
	trained, err := loadOrTrainModel(ctx, table, 7, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("first loadOrTrainModel() error = %v", err)
	}

	cached, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(cached) != 1 || cached[0].Key != recommend.Fingerprint(table, 7) {
		t.Fatalf("cached snapshots = %+v", cached)
	}

	restored, err := loadOrTrainModel(ctx, table, 7, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("second loadOrTrainModel() error = %v", err)
	}
	if !restored.Info().TrainedAt.Equal(trained.Info().TrainedAt) {
		t.Errorf("restored model TrainedAt = %v, want %v (retrained instead of restored)",
			restored.Info().TrainedAt, trained.Info().TrainedAt)
	}

	want, err := trained.Predict(3, 4)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	got, err := restored.Predict(3, 4)
	if err != nil {
		t.Fatalf("restored Predict() error = %v", err)
	}
	if got != want {
		t.Errorf("restored prediction = %v, want %v", got, want)
	}
}

// failingCache fails every operation.
type failingCache struct {
	saves int
}

func (f *failingCache) Save(context.Context, string, interface{}, storage.ModelMetadata) error {
	f.saves++
	return errors.New("disk full")
}

func (f *failingCache) Load(context.Context, string, interface{}) (*storage.ModelMetadata, error) {
	return nil, errors.New("corrupt value log")
}

func (f *failingCache) Prune(context.Context, int) (int, error) {
	return 0, errors.New("unreachable")
}

func TestLoadOrTrainModelCacheFailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	cache := &failingCache{}
	model, err := loadOrTrainModel(context.Background(), smallTable(), 0, cache, zerolog.Nop())
	if err != nil {
		t.Fatalf("loadOrTrainModel() error = %v", err)
	}
	if model == nil {
		t.Fatal("expected a trained model")
	}
	if cache.saves != 1 {
		t.Errorf("Save calls = %d, want 1", cache.saves)
	}
	if model.Info().Fingerprint != recommend.Fingerprint(smallTable(), recommend.DefaultTrainSeed) {
		t.Error("seed 0 should train with the default seed")
	}
}

func TestLoadOrTrainModelWithoutCache(t *testing.T) {
	t.Parallel()

	if _, err := loadOrTrainModel(context.Background(), smallTable(), 1, nil, zerolog.Nop()); err != nil {
		t.Fatalf("loadOrTrainModel() error = %v", err)
	}

	_, err := loadOrTrainModel(context.Background(), nil, 1, nil, zerolog.Nop())
	if !errors.Is(err, recommend.ErrEmptyTrainingSet) {
		t.Errorf("empty table error = %v, want ErrEmptyTrainingSet", err)
	}
}
