// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package storage persists trained model snapshots in BadgerDB.
//
// Training on a large MovieLens corpus takes minutes, so the server keeps
// the fitted model across restarts. A snapshot is stored under the
// fingerprint of its training input; a restart with the same corpus and
// seed loads the snapshot, anything else misses and retrains.
//
// # Storage Format
//
// Two keys are written per snapshot in a single transaction:
//
//	model:{key}       gzip-compressed JSON of the model state
//	model_meta:{key}  JSON ModelMetadata, including the SHA-256 checksum
//	                  of the uncompressed state
//
// Load verifies the checksum before decoding and reports cache hits, misses
// and errors to the model_cache_lookups_total metric.
//
// # Usage Example
//
//	store, err := storage.NewStore(storage.Config{Path: "/data/model-cache"}, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	var snap recommend.Snapshot
//	if _, err := store.Load(ctx, fingerprint, &snap); errors.Is(err, storage.ErrModelNotFound) {
//	    // train, then store.Save(ctx, fingerprint, snapshot, meta)
//	}
//
// # Thread Safety
//
// All operations run in BadgerDB transactions and are safe for concurrent use.
package storage
