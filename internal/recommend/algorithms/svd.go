// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/tomtom215/cinematch/internal/models"
)

// SVDConfig contains configuration for the biased matrix factorization model.
type SVDConfig struct {
	// NumFactors is the dimension of the latent factor vectors.
	// Default: 100.
	NumFactors int

	// NumEpochs is the number of passes over the training ratings.
	// Default: 20.
	NumEpochs int

	// LearningRate is the SGD step size for all parameters.
	// Default: 0.005.
	LearningRate float64

	// Regularization is the L2 penalty for all parameters.
	// Default: 0.02.
	Regularization float64

	// InitMean is the mean of the normal distribution factors are drawn from.
	InitMean float64

	// InitStdDev is the standard deviation of the factor initialization.
	// Default: 0.1.
	InitStdDev float64

	// Seed for reproducible training.
	// If 0, uses a default seed.
	Seed int64
}

// DefaultSVDConfig returns default SVD configuration.
func DefaultSVDConfig() SVDConfig {
	return SVDConfig{
		NumFactors:     100,
		NumEpochs:      20,
		LearningRate:   0.005,
		Regularization: 0.02,
		InitMean:       0,
		InitStdDev:     0.1,
		Seed:           42,
	}
}

// SVD is a biased matrix factorization model for explicit ratings.
//
// Users and items are indexed in order of first appearance in the training
// table. Factor matrices are stored row-major in flat slices
// (rows x NumFactors) to keep the SGD inner loop on contiguous memory.
type SVD struct {
	config  SVDConfig
	trained bool

	globalMean float64
	scale      Scale
	numRatings int

	// userIndex and itemIndex map external ids to matrix rows.
	userIndex map[int]int
	itemIndex map[int]int

	// indexToUser and indexToItem map matrix rows back to external ids.
	indexToUser []int
	indexToItem []int

	userBias    []float64
	itemBias    []float64
	userFactors []float64
	itemFactors []float64
}

// NewSVD creates a new SVD model with the given configuration.
func NewSVD(cfg SVDConfig) *SVD {
	if cfg.NumFactors <= 0 {
		cfg.NumFactors = 100
	}
	if cfg.NumEpochs <= 0 {
		cfg.NumEpochs = 20
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.005
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = 0.02
	}
	if cfg.InitStdDev <= 0 {
		cfg.InitStdDev = 0.1
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	return &SVD{
		config: cfg,
	}
}

// Config returns the effective configuration.
func (s *SVD) Config() SVDConfig {
	return s.config
}

// IsTrained reports whether Fit has completed.
func (s *SVD) IsTrained() bool {
	return s.trained
}

// Scale returns the rating range observed during training.
func (s *SVD) Scale() Scale {
	return s.scale
}

// GlobalMean returns the mean training rating.
func (s *SVD) GlobalMean() float64 {
	return s.globalMean
}

// NumUsers returns the number of distinct training users.
func (s *SVD) NumUsers() int {
	return len(s.indexToUser)
}

// NumItems returns the number of distinct training items.
func (s *SVD) NumItems() int {
	return len(s.indexToItem)
}

// NumRatings returns the number of ratings the model was fitted on.
func (s *SVD) NumRatings() int {
	return s.numRatings
}

// Fit trains the model. It may be called once; the fitted model is
// read-only afterwards.
//
//nolint:gocyclo // ML training algorithms are inherently complex
func (s *SVD) Fit(ctx context.Context, ratings []models.HistoricalRating) error {
	if s.trained {
		return ErrAlreadyTrained
	}
	if len(ratings) == 0 {
		return ErrNoRatings
	}
	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	userIndex := make(map[int]int)
	itemIndex := make(map[int]int)
	var indexToUser, indexToItem []int

	// Row indices per rating so the epoch loop avoids map lookups.
	userRows := make([]int32, len(ratings))
	itemRows := make([]int32, len(ratings))

	var sum float64
	minRating, maxRating := math.Inf(1), math.Inf(-1)
	for n, r := range ratings {
		v := float64(r.Value)
		if r.UserID <= 0 || r.MovieID <= 0 || !isFinite(v) {
			return fmt.Errorf("%w: row %d (user %d, movie %d, rating %v)",
				ErrInvalidRating, n, r.UserID, r.MovieID, r.Value)
		}

		uid, iid := int(r.UserID), int(r.MovieID)
		ui, ok := userIndex[uid]
		if !ok {
			ui = len(indexToUser)
			userIndex[uid] = ui
			indexToUser = append(indexToUser, uid)
		}
		ii, ok := itemIndex[iid]
		if !ok {
			ii = len(indexToItem)
			itemIndex[iid] = ii
			indexToItem = append(indexToItem, iid)
		}
		userRows[n] = int32(ui) //nolint:gosec // G115: row count is bounded by len(ratings)
		itemRows[n] = int32(ii) //nolint:gosec // G115: row count is bounded by len(ratings)

		sum += v
		minRating = math.Min(minRating, v)
		maxRating = math.Max(maxRating, v)
	}

	numUsers := len(indexToUser)
	numItems := len(indexToItem)
	k := s.config.NumFactors
	globalMean := sum / float64(len(ratings))

	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng := rand.New(rand.NewSource(s.config.Seed))

	userFactors := make([]float64, numUsers*k)
	for i := range userFactors {
		userFactors[i] = s.config.InitMean + rng.NormFloat64()*s.config.InitStdDev
	}
	itemFactors := make([]float64, numItems*k)
	for i := range itemFactors {
		itemFactors[i] = s.config.InitMean + rng.NormFloat64()*s.config.InitStdDev
	}
	userBias := make([]float64, numUsers)
	itemBias := make([]float64, numItems)

	lr := s.config.LearningRate
	reg := s.config.Regularization

	for epoch := 0; epoch < s.config.NumEpochs; epoch++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}

		for n := range ratings {
			u := int(userRows[n])
			i := int(itemRows[n])
			pu := userFactors[u*k : (u+1)*k]
			qi := itemFactors[i*k : (i+1)*k]

			var dot float64
			for f := 0; f < k; f++ {
				dot += qi[f] * pu[f]
			}
			err := float64(ratings[n].Value) - (globalMean + userBias[u] + itemBias[i] + dot)

			userBias[u] += lr * (err - reg*userBias[u])
			itemBias[i] += lr * (err - reg*itemBias[i])

			for f := 0; f < k; f++ {
				puf := pu[f]
				qif := qi[f]
				pu[f] += lr * (err*qif - reg*puf)
				qi[f] += lr * (err*puf - reg*qif)
			}
		}
	}

	s.globalMean = globalMean
	s.scale = Scale{Min: minRating, Max: maxRating}
	s.numRatings = len(ratings)
	s.userIndex = userIndex
	s.itemIndex = itemIndex
	s.indexToUser = indexToUser
	s.indexToItem = indexToItem
	s.userBias = userBias
	s.itemBias = itemBias
	s.userFactors = userFactors
	s.itemFactors = itemFactors
	s.trained = true
	return nil
}

// Predict estimates the rating userID would give itemID, clipped to the
// training scale. Unknown users and items fall back to the bias terms that
// are known, down to the global mean.
func (s *SVD) Predict(userID, itemID int) (float64, error) {
	if !s.trained {
		return 0, ErrNotTrained
	}

	est := s.globalMean
	ui, knownUser := s.userIndex[userID]
	ii, knownItem := s.itemIndex[itemID]
	if knownUser {
		est += s.userBias[ui]
	}
	if knownItem {
		est += s.itemBias[ii]
	}
	if knownUser && knownItem {
		k := s.config.NumFactors
		pu := s.userFactors[ui*k : (ui+1)*k]
		qi := s.itemFactors[ii*k : (ii+1)*k]
		for f := 0; f < k; f++ {
			est += qi[f] * pu[f]
		}
	}

	if !isFinite(est) {
		return 0, fmt.Errorf("%w for user %d, item %d", ErrNonFiniteEstimate, userID, itemID)
	}
	return s.scale.Clip(est), nil
}

// KnowsUser reports whether userID appeared in the training data.
func (s *SVD) KnowsUser(userID int) bool {
	_, ok := s.userIndex[userID]
	return ok
}

// KnowsItem reports whether itemID appeared in the training data.
func (s *SVD) KnowsItem(itemID int) bool {
	_, ok := s.itemIndex[itemID]
	return ok
}
