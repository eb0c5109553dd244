// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package algorithms implements the numeric core of the recommender.
//
// # Prediction
//
// SVD is a biased matrix factorization model trained with stochastic
// gradient descent on explicit ratings:
//
//	r̂(u, i) = μ + b_u + b_i + p_u · q_i
//
// where μ is the global mean, b_u and b_i are user and item biases and
// p_u, q_i are latent factor vectors. Each epoch visits the training
// ratings in input order and applies, for error e = r - r̂:
//
//	b_u += lr * (e - reg*b_u)
//	b_i += lr * (e - reg*b_i)
//	p_u += lr * (e*q_i - reg*p_u)
//	q_i += lr * (e*p_u - reg*q_i)
//
// Factors are initialised from N(InitMean, InitStdDev²) drawn from a
// seeded source, so training is deterministic for a fixed seed and input.
//
// Predict accepts any (user, item) pair. Unknown users or items drop their
// terms from the sum, so an entirely unseen pair predicts μ. Estimates are
// clipped to the rating scale observed during training.
//
// # Similarity
//
// UserSimilarity scores two users by the cosine of their rating vectors
// restricted to movies both have rated, as a percentage rounded to one
// decimal. Fewer than MinCommonMovies shared movies score 0.
//
// # Sampling
//
// SampleIndices draws k distinct indices from [0, n) with Floyd's
// algorithm and returns them in ascending order. It is used both to
// subsample very large training tables and to bound per-request candidate
// sets.
//
// # Thread Safety
//
// A fitted SVD is never mutated again, so Predict is safe for concurrent
// use without locking. Fit itself must not run concurrently with anything.
package algorithms
