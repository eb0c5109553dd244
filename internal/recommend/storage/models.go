// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// Key prefixes for BadgerDB storage
const (
	modelKeyPrefix = "model:"
	metaKeyPrefix  = "model_meta:"
)

// DefaultKeepModels is how many snapshots Prune keeps by default.
const DefaultKeepModels = 3

// ErrModelNotFound is returned by Load when no snapshot exists for a key.
var ErrModelNotFound = errors.New("model snapshot not found")

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Key identifies the training input (recommend.Fingerprint).
	Key string `json:"key"`

	// Name is the algorithm name (e.g., "svd").
	Name string `json:"name"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// RatingCount is the number of ratings used for training.
	RatingCount int `json:"rating_count"`

	// UserCount is the number of unique users.
	UserCount int `json:"user_count"`

	// ItemCount is the number of unique items.
	ItemCount int `json:"item_count"`

	// Checksum is the SHA-256 checksum of the uncompressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// Config holds model store settings.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in memory; used by tests.
	InMemory bool
}

// Store persists trained model snapshots in BadgerDB, keyed by the
// fingerprint of their training input.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore opens (or creates) the model store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(cfg Config, logger zerolog.Logger) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create model cache directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With().Str("component", "model_store").Logger(),
		now:    time.Now,
	}
	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("model store opened")
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores data under key, replacing any previous snapshot for that key.
// The data is JSON encoded, checksummed and gzip compressed.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, key string, data interface{}, meta ModelMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rawData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	// Compute checksum
	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	// Compress data
	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.Key = key
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = s.now().UTC()

	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(modelKeyPrefix+key), compressed.Bytes()); err != nil {
			return fmt.Errorf("set model: %w", err)
		}
		if err := txn.Set([]byte(metaKeyPrefix+key), metaData); err != nil {
			return fmt.Errorf("set metadata: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("key", key).
		Int64("size_bytes", meta.SizeBytes).
		Msg("model snapshot saved")
	return nil
}

// Load decodes the snapshot stored under key into target.
// Returns ErrModelNotFound when the key is absent.
func (s *Store) Load(ctx context.Context, key string, target interface{}) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meta ModelMetadata
	var compressed []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get metadata: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return fmt.Errorf("decode metadata: %w", err)
		}

		item, err = txn.Get([]byte(modelKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get model: %w", err)
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, ErrModelNotFound) {
		metrics.RecordModelCacheLookup("miss")
		return nil, err
	}
	if err != nil {
		metrics.RecordModelCacheLookup("error")
		return nil, err
	}

	if err := decodeSnapshot(compressed, meta.Checksum, target); err != nil {
		metrics.RecordModelCacheLookup("error")
		return nil, err
	}

	metrics.RecordModelCacheLookup("hit")
	return &meta, nil
}

// decodeSnapshot decompresses, verifies and decodes a stored model.
func decodeSnapshot(compressed []byte, checksum string, target interface{}) error {
	gzr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return fmt.Errorf("read decompressed data: %w", err)
	}

	// Verify checksum
	hash := sha256.Sum256(rawData)
	if got := hex.EncodeToString(hash[:]); got != checksum {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", checksum, got)
	}

	if err := json.Unmarshal(rawData, target); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}
	return nil
}

// ListModels returns metadata for all stored models, newest first.
func (s *Store) ListModels(ctx context.Context) ([]ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	models := make([]ModelMetadata, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var meta ModelMetadata
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return fmt.Errorf("decode metadata: %w", err)
			}
			models = append(models, meta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	sort.SliceStable(models, func(i, j int) bool {
		return models[i].SavedAt.After(models[j].SavedAt)
	})
	return models, nil
}

// Delete removes the snapshot stored under key. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(modelKeyPrefix + key)); err != nil {
			return fmt.Errorf("delete model: %w", err)
		}
		if err := txn.Delete([]byte(metaKeyPrefix + key)); err != nil {
			return fmt.Errorf("delete metadata: %w", err)
		}
		return nil
	})
}

// Prune removes all but the keep most recently saved snapshots and returns
// how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	models, err := s.ListModels(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := keep; i < len(models); i++ {
		if err := s.Delete(ctx, models[i].Key); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Int("kept", keep).Msg("pruned model snapshots")
	}
	return removed, nil
}
