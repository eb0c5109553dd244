// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend trains the rating model and serves recommendations.
//
// # Training
//
// Train fits a biased matrix factorization model (algorithms.SVD) on the
// historical rating table:
//
//   - Tables above SampleThreshold rows are subsampled to SampleSize rows
//     with a seeded draw that preserves corpus order.
//   - The rating scale is the [min, max] of the (sampled) table.
//   - Tables above LargeCorpusThreshold rows use LargeCorpusFactors and
//     LargeCorpusEpochs; smaller tables use SmallCorpusFactors and
//     SmallCorpusEpochs.
//
// Training failures are returned to the caller and are expected to abort
// startup. The resulting Model is immutable and safe for concurrent use.
// A Model can be exported as a Snapshot and restored without retraining;
// Fingerprint identifies the training input a snapshot belongs to.
//
// # Serving
//
// Service answers the read operations of the application:
//
//   - RecommendFor: predict ratings for up to MaxCandidates unrated movies
//     within a wall-clock budget and return the best n
//   - FindSimilarUsers: score every other rater with algorithms.UserSimilarity
//     and return the closest matches
//   - TopRated: a user's highest rated movies with catalog metadata
//   - Similarity: the score between two users
//
// The Service depends on the Predictor, RatingsStore and Catalog interfaces,
// so tests inject stubs for each.
//
// # Usage
//
//	model, err := recommend.Train(ctx, corpus.HistoricalRatings(), recommend.TrainOptions{
//	    Seed:   cfg.Recommend.TrainSeed,
//	    Logger: logger,
//	})
//	if err != nil {
//	    return err
//	}
//
//	svc := recommend.NewService(model, db, corpus, recommend.ServiceConfig{
//	    PredictionBudget:  cfg.Recommend.PredictionBudget,
//	    SimilarityWorkers: cfg.Recommend.SimilarityWorkers,
//	    SampleSeed:        cfg.Recommend.SampleSeed,
//	}, logger)
//
//	recs, err := svc.RecommendFor(ctx, userID, 12)
package recommend
