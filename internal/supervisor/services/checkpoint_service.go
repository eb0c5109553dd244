// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// checkpointTimeout bounds a single checkpoint.
const checkpointTimeout = time.Minute

// Checkpointer flushes the ratings store's write-ahead log.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically checkpoints the ratings store so the WAL
// stays small and a crash replays little. Failures are logged and retried on
// the next tick; they never restart the service.
type CheckpointService struct {
	store    Checkpointer
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCheckpointService creates a checkpoint service. A non-positive interval
// makes Serve idle until shutdown.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(store Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	return &CheckpointService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "duckdb-checkpoint").Logger(),
		name:     "duckdb-checkpoint",
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info().Msg("periodic checkpoints disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("checkpoint service running")

	for {
		select {
		case <-ctx.Done():
			// Final checkpoint so a clean shutdown leaves an empty WAL.
			s.checkpoint(context.Background())
			return ctx.Err()
		case <-ticker.C:
			s.checkpoint(ctx)
		}
	}
}

func (s *CheckpointService) checkpoint(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, checkpointTimeout)
	defer cancel()

	start := time.Now()
	if err := s.store.Checkpoint(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("checkpoint failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("checkpoint complete")
}

// String returns the service name for logging.
func (s *CheckpointService) String() string {
	return s.name
}
