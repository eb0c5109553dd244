// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type testState struct {
	Factors []float64   `json:"factors"`
	UserIDs []int       `json:"user_ids"`
	Nested  [][]float64 `json:"nested"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(Config{InMemory: true}, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  func(t *testing.T) Config
	}{
		{
			name: "creates directory if not exists",
			cfg: func(t *testing.T) Config {
				return Config{Path: filepath.Join(t.TempDir(), "new_dir")}
			},
		},
		{
			name: "uses existing directory",
			cfg: func(t *testing.T) Config {
				return Config{Path: t.TempDir()}
			},
		},
		{
			name: "in memory",
			cfg: func(_ *testing.T) Config {
				return Config{InMemory: true}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, err := NewStore(tt.cfg(t), zerolog.New(io.Discard))
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			if err := store.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	data := testState{
		Factors: []float64{0.1, -0.25, 3.5},
		UserIDs: []int{7, 3, 11},
		Nested:  [][]float64{{1, 2}, {3, 4}},
	}
	trainedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	meta := ModelMetadata{
		Name:               "svd",
		TrainedAt:          trainedAt,
		RatingCount:        1000,
		UserCount:          50,
		ItemCount:          100,
		TrainingDurationMS: 1500,
	}

	if err := store.Save(ctx, "v1-abc", data, meta); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var loaded testState
	got, err := store.Load(ctx, "v1-abc", &loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(loaded.Factors, data.Factors) || !slices.Equal(loaded.UserIDs, data.UserIDs) {
		t.Errorf("Load() data = %+v, want %+v", loaded, data)
	}
	if len(loaded.Nested) != 2 || loaded.Nested[1][1] != 4 {
		t.Errorf("Load() nested = %v", loaded.Nested)
	}

	if got.Key != "v1-abc" {
		t.Errorf("Key = %q, want v1-abc", got.Key)
	}
	if got.Name != "svd" || got.RatingCount != 1000 || got.UserCount != 50 || got.ItemCount != 100 {
		t.Errorf("metadata = %+v", got)
	}
	if !got.TrainedAt.Equal(trainedAt) {
		t.Errorf("TrainedAt = %v, want %v", got.TrainedAt, trainedAt)
	}
	if got.Checksum == "" {
		t.Error("Checksum should be set")
	}
	if got.SizeBytes <= 0 {
		t.Errorf("SizeBytes = %d, want > 0", got.SizeBytes)
	}
	if got.SavedAt.IsZero() {
		t.Error("SavedAt should be set")
	}
}

func TestStoreLoadNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	var loaded testState
	_, err := store.Load(context.Background(), "missing", &loaded)
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load() error = %v, want ErrModelNotFound", err)
	}
}

func TestStoreLoadChecksumMismatch(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "k", testState{Factors: []float64{1}}, ModelMetadata{Name: "svd"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Rewrite the metadata with a bogus checksum.
	err := store.db.Update(func(txn *badger.Txn) error {
		raw, err := json.Marshal(ModelMetadata{Key: "k", Name: "svd", Checksum: "deadbeef"})
		if err != nil {
			return err
		}
		return txn.Set([]byte(metaKeyPrefix+"k"), raw)
	})
	if err != nil {
		t.Fatalf("tamper metadata: %v", err)
	}

	var loaded testState
	if _, err := store.Load(ctx, "k", &loaded); err == nil {
		t.Error("Load() should fail on checksum mismatch")
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "k", testState{UserIDs: []int{1}}, ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, "k", testState{UserIDs: []int{2}}, ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var loaded testState
	if _, err := store.Load(ctx, "k", &loaded); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(loaded.UserIDs, []int{2}) {
		t.Errorf("Load() = %v, want latest save", loaded.UserIDs)
	}

	list, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListModels() = %d entries, want 1", len(list))
	}
}

func TestStoreListDeletePrune(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	for _, key := range []string{"a", "b", "c", "d"} {
		if err := store.Save(ctx, key, testState{}, ModelMetadata{Name: "svd"}); err != nil {
			t.Fatalf("Save(%s) error = %v", key, err)
		}
	}

	list, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	keys := make([]string, len(list))
	for i, m := range list {
		keys[i] = m.Key
	}
	if !slices.Equal(keys, []string{"d", "c", "b", "a"}) {
		t.Errorf("ListModels() keys = %v, want newest first", keys)
	}

	if err := store.Delete(ctx, "c"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	var loaded testState
	if _, err := store.Load(ctx, "c", &loaded); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load(deleted) error = %v, want ErrModelNotFound", err)
	}

	removed, err := store.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed = %d, want 2", removed)
	}
	if _, err := store.Load(ctx, "d", &loaded); err != nil {
		t.Errorf("newest snapshot should survive prune: %v", err)
	}
	if _, err := store.Load(ctx, "a", &loaded); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("oldest snapshot should be pruned, got %v", err)
	}
}

func TestStoreCancelledContext(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Save(ctx, "k", testState{}, ModelMetadata{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
	var loaded testState
	if _, err := store.Load(ctx, "k", &loaded); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
