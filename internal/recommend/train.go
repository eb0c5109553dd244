// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

const (
	// SampleThreshold is the table size above which training subsamples.
	SampleThreshold = 5_000_000

	// SampleSize is the number of rows drawn from tables above SampleThreshold.
	SampleSize = 2_000_000

	// LargeCorpusThreshold is the training size above which the cheaper
	// capacity settings apply.
	LargeCorpusThreshold = 1_000_000

	LargeCorpusFactors = 50
	LargeCorpusEpochs  = 10
	SmallCorpusFactors = 100
	SmallCorpusEpochs  = 20

	// DefaultTrainSeed seeds sampling and factor initialization when
	// TrainOptions.Seed is zero.
	DefaultTrainSeed = 42

	// modelVersion is mixed into Fingerprint so snapshots from an
	// incompatible training procedure are never reused.
	modelVersion = 1
)

// TrainOptions configures Train.
type TrainOptions struct {
	// Seed drives the subsample draw and factor initialization.
	// If 0, DefaultTrainSeed is used.
	Seed int64

	// Logger receives training progress. The zero value discards output.
	Logger zerolog.Logger
}

func (o *TrainOptions) seed() int64 {
	if o.Seed == 0 {
		return DefaultTrainSeed
	}
	return o.Seed
}

// Capacity returns the factor and epoch counts for a training table of the
// given size.
func Capacity(rows int) (factors, epochs int) {
	if rows > LargeCorpusThreshold {
		return LargeCorpusFactors, LargeCorpusEpochs
	}
	return SmallCorpusFactors, SmallCorpusEpochs
}

// SampleTrainingSet returns table unchanged when it has at most
// SampleThreshold rows. Larger tables yield exactly SampleSize rows chosen
// uniformly without replacement, in their original order.
func SampleTrainingSet(table []models.HistoricalRating, seed int64) []models.HistoricalRating {
	if len(table) <= SampleThreshold {
		return table
	}

	//nolint:gosec // G404: math/rand is acceptable for reproducible subsampling
	rng := rand.New(rand.NewSource(seed))
	idx := algorithms.SampleIndices(rng, len(table), SampleSize)

	sample := make([]models.HistoricalRating, len(idx))
	for i, j := range idx {
		sample[i] = table[j]
	}
	return sample
}

// Train fits a model on the historical rating table. It fails on an empty
// table or any malformed row; callers treat a failure as fatal.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func Train(ctx context.Context, table []models.HistoricalRating, opts TrainOptions) (*Model, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	logger := opts.Logger.With().Str("component", "recommend").Logger()
	seed := opts.seed()
	start := time.Now()

	fingerprint := Fingerprint(table, seed)
	sample := SampleTrainingSet(table, seed)
	factors, epochs := Capacity(len(sample))

	logger.Info().
		Int("table_rows", len(table)).
		Int("training_rows", len(sample)).
		Int("factors", factors).
		Int("epochs", epochs).
		Int64("seed", seed).
		Msg("starting model training")

	cfg := algorithms.DefaultSVDConfig()
	cfg.NumFactors = factors
	cfg.NumEpochs = epochs
	cfg.Seed = seed

	svd := algorithms.NewSVD(cfg)
	if err := svd.Fit(ctx, sample); err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}

	duration := time.Since(start)
	model := &Model{
		svd: svd,
		info: ModelInfo{
			Fingerprint:      fingerprint,
			Factors:          factors,
			Epochs:           epochs,
			TableRows:        len(table),
			TrainingRows:     len(sample),
			Sampled:          len(sample) < len(table),
			Users:            svd.NumUsers(),
			Movies:           svd.NumItems(),
			Scale:            svd.Scale(),
			GlobalMean:       svd.GlobalMean(),
			TrainedAt:        time.Now().UTC(),
			TrainingDuration: duration,
		},
	}

	metrics.RecordTraining(duration, len(sample), factors, epochs)
	logger.Info().
		Dur("duration", duration).
		Int("users", model.info.Users).
		Int("movies", model.info.Movies).
		Float64("scale_min", model.info.Scale.Min).
		Float64("scale_max", model.info.Scale.Max).
		Float64("global_mean", model.info.GlobalMean).
		Msg("model trained")

	return model, nil
}

// Fingerprint identifies a training input: the full table contents, the
// seed and the training procedure version. Models restored from a snapshot
// are only reused when the fingerprint matches.
func Fingerprint(table []models.HistoricalRating, seed int64) string {
	h := fnv.New64a()
	var buf [12]byte

	binary.LittleEndian.PutUint64(buf[:8], uint64(seed)) //nolint:gosec // G115: bit pattern only
	_, _ = h.Write(buf[:8])
	binary.LittleEndian.PutUint64(buf[:8], uint64(len(table)))
	_, _ = h.Write(buf[:8])
	binary.LittleEndian.PutUint32(buf[:4], modelVersion)
	_, _ = h.Write(buf[:4])

	for _, r := range table {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(r.UserID))  //nolint:gosec // G115: bit pattern only
		binary.LittleEndian.PutUint32(buf[4:8], uint32(r.MovieID)) //nolint:gosec // G115: bit pattern only
		binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(r.Value))
		_, _ = h.Write(buf[:])
	}

	return fmt.Sprintf("v%d-%016x", modelVersion, h.Sum64())
}
