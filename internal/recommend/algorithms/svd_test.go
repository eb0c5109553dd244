// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/cinematch/internal/models"
)

func TestNewSVD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		config         SVDConfig
		expectedConfig SVDConfig
	}{
		{
			name:   "default config",
			config: DefaultSVDConfig(),
			expectedConfig: SVDConfig{
				NumFactors:     100,
				NumEpochs:      20,
				LearningRate:   0.005,
				Regularization: 0.02,
				InitStdDev:     0.1,
				Seed:           42,
			},
		},
		{
			name: "custom config",
			config: SVDConfig{
				NumFactors:     50,
				NumEpochs:      10,
				LearningRate:   0.01,
				Regularization: 0.1,
				InitMean:       0.5,
				InitStdDev:     0.2,
				Seed:           7,
			},
			expectedConfig: SVDConfig{
				NumFactors:     50,
				NumEpochs:      10,
				LearningRate:   0.01,
				Regularization: 0.1,
				InitMean:       0.5,
				InitStdDev:     0.2,
				Seed:           7,
			},
		},
		{
			name:   "zero values get defaults",
			config: SVDConfig{},
			expectedConfig: SVDConfig{
				NumFactors:     100,
				NumEpochs:      20,
				LearningRate:   0.005,
				Regularization: 0.02,
				InitStdDev:     0.1,
				Seed:           42,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svd := NewSVD(tt.config)
			if svd.Config() != tt.expectedConfig {
				t.Errorf("Config() = %+v, want %+v", svd.Config(), tt.expectedConfig)
			}
			if svd.IsTrained() {
				t.Error("new model should not be trained")
			}
		})
	}
}

// preferenceRatings has every user love movie 1 and dislike movie 2, plus
// a few neutral ratings on movie 3.
func preferenceRatings() []models.HistoricalRating {
	var ratings []models.HistoricalRating
	for u := int32(1); u <= 20; u++ {
		ratings = append(ratings,
			models.HistoricalRating{UserID: u, MovieID: 1, Value: 5},
			models.HistoricalRating{UserID: u, MovieID: 2, Value: 1},
		)
		if u%2 == 0 {
			ratings = append(ratings, models.HistoricalRating{UserID: u, MovieID: 3, Value: 3})
		}
	}
	return ratings
}

func fitSVD(t *testing.T, cfg SVDConfig, ratings []models.HistoricalRating) *SVD {
	t.Helper()
	svd := NewSVD(cfg)
	if err := svd.Fit(context.Background(), ratings); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return svd
}

func TestSVDFitErrors(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		ratings []models.HistoricalRating
		wantErr error
	}{
		{
			name:    "empty table",
			ctx:     context.Background(),
			ratings: nil,
			wantErr: ErrNoRatings,
		},
		{
			name:    "zero user id",
			ctx:     context.Background(),
			ratings: []models.HistoricalRating{{UserID: 0, MovieID: 1, Value: 4}},
			wantErr: ErrInvalidRating,
		},
		{
			name:    "negative movie id",
			ctx:     context.Background(),
			ratings: []models.HistoricalRating{{UserID: 1, MovieID: -3, Value: 4}},
			wantErr: ErrInvalidRating,
		},
		{
			name:    "NaN rating",
			ctx:     context.Background(),
			ratings: []models.HistoricalRating{{UserID: 1, MovieID: 1, Value: float32(math.NaN())}},
			wantErr: ErrInvalidRating,
		},
		{
			name:    "infinite rating",
			ctx:     context.Background(),
			ratings: []models.HistoricalRating{{UserID: 1, MovieID: 1, Value: float32(math.Inf(1))}},
			wantErr: ErrInvalidRating,
		},
		{
			name:    "cancelled context",
			ctx:     cancelled,
			ratings: preferenceRatings(),
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svd := NewSVD(SVDConfig{NumFactors: 4, NumEpochs: 2})
			err := svd.Fit(tt.ctx, tt.ratings)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Fit() error = %v, want %v", err, tt.wantErr)
			}
			if svd.IsTrained() {
				t.Error("failed Fit() must leave the model untrained")
			}
		})
	}
}

func TestSVDFitOnce(t *testing.T) {
	t.Parallel()

	svd := fitSVD(t, SVDConfig{NumFactors: 4, NumEpochs: 2}, preferenceRatings())
	if err := svd.Fit(context.Background(), preferenceRatings()); !errors.Is(err, ErrAlreadyTrained) {
		t.Errorf("second Fit() error = %v, want ErrAlreadyTrained", err)
	}
}

func TestSVDPredictNotTrained(t *testing.T) {
	t.Parallel()

	if _, err := NewSVD(DefaultSVDConfig()).Predict(1, 1); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Predict() error = %v, want ErrNotTrained", err)
	}
}

func TestSVDStatistics(t *testing.T) {
	t.Parallel()

	ratings := preferenceRatings()
	svd := fitSVD(t, SVDConfig{NumFactors: 4, NumEpochs: 1}, ratings)

	if svd.NumUsers() != 20 {
		t.Errorf("NumUsers() = %d, want 20", svd.NumUsers())
	}
	if svd.NumItems() != 3 {
		t.Errorf("NumItems() = %d, want 3", svd.NumItems())
	}
	if svd.NumRatings() != len(ratings) {
		t.Errorf("NumRatings() = %d, want %d", svd.NumRatings(), len(ratings))
	}
	if got := svd.Scale(); got != (Scale{Min: 1, Max: 5}) {
		t.Errorf("Scale() = %+v, want [1, 5]", got)
	}

	// 20 fives, 20 ones and 10 threes.
	wantMean := (20*5.0 + 20*1.0 + 10*3.0) / 50.0
	if math.Abs(svd.GlobalMean()-wantMean) > 1e-9 {
		t.Errorf("GlobalMean() = %v, want %v", svd.GlobalMean(), wantMean)
	}
}

func TestSVDDeterministic(t *testing.T) {
	t.Parallel()

	cfg := SVDConfig{NumFactors: 8, NumEpochs: 5, Seed: 99}
	a := fitSVD(t, cfg, preferenceRatings())
	b := fitSVD(t, cfg, preferenceRatings())

	for user := 1; user <= 20; user++ {
		for item := 1; item <= 3; item++ {
			pa, err := a.Predict(user, item)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			pb, err := b.Predict(user, item)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if pa != pb {
				t.Fatalf("Predict(%d, %d) differs between runs: %v vs %v", user, item, pa, pb)
			}
		}
	}
}

func TestSVDLearnsPreferences(t *testing.T) {
	t.Parallel()

	svd := fitSVD(t, SVDConfig{NumFactors: 10, NumEpochs: 200}, preferenceRatings())

	for user := 1; user <= 20; user++ {
		loved, err := svd.Predict(user, 1)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		disliked, err := svd.Predict(user, 2)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if loved <= disliked {
			t.Errorf("user %d: Predict(loved) = %v should exceed Predict(disliked) = %v", user, loved, disliked)
		}
	}

	// An unseen user still ranks by item bias.
	loved, _ := svd.Predict(1000, 1)
	disliked, _ := svd.Predict(1000, 2)
	if loved <= disliked {
		t.Errorf("unknown user: %v should exceed %v", loved, disliked)
	}
}

func TestSVDPredictUnseenWithinScale(t *testing.T) {
	t.Parallel()

	svd := fitSVD(t, SVDConfig{NumFactors: 4, NumEpochs: 20}, preferenceRatings())

	tests := []struct {
		name   string
		userID int
		itemID int
	}{
		{"known pair", 1, 1},
		{"unknown user", 5000, 1},
		{"unknown item", 1, 5000},
		{"unknown both", 5000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svd.Predict(tt.userID, tt.itemID)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if got < 1 || got > 5 {
				t.Errorf("Predict(%d, %d) = %v, outside [1, 5]", tt.userID, tt.itemID, got)
			}
		})
	}

	got, _ := svd.Predict(5000, 5000)
	if got != svd.Scale().Clip(svd.GlobalMean()) {
		t.Errorf("Predict(unknown, unknown) = %v, want global mean %v", got, svd.GlobalMean())
	}
}

func TestSVDClipsToScale(t *testing.T) {
	t.Parallel()

	// Constant ratings give a zero-width scale, so every estimate clips to it.
	ratings := []models.HistoricalRating{
		{UserID: 1, MovieID: 1, Value: 4},
		{UserID: 2, MovieID: 2, Value: 4},
		{UserID: 3, MovieID: 1, Value: 4},
	}
	svd := fitSVD(t, SVDConfig{NumFactors: 2, NumEpochs: 50}, ratings)

	for _, pair := range [][2]int{{1, 1}, {1, 2}, {9, 9}} {
		got, err := svd.Predict(pair[0], pair[1])
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if got != 4 {
			t.Errorf("Predict(%d, %d) = %v, want 4", pair[0], pair[1], got)
		}
	}
}

func TestSVDStateRestore(t *testing.T) {
	t.Parallel()

	svd := fitSVD(t, SVDConfig{NumFactors: 6, NumEpochs: 10}, preferenceRatings())
	state, err := svd.State()
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}

	restored, err := RestoreSVD(state)
	if err != nil {
		t.Fatalf("RestoreSVD() error = %v", err)
	}
	if !restored.IsTrained() || restored.Config() != svd.Config() {
		t.Fatalf("restored model = trained %v config %+v", restored.IsTrained(), restored.Config())
	}

	for _, pair := range [][2]int{{1, 1}, {2, 3}, {20, 2}, {999, 1}} {
		want, _ := svd.Predict(pair[0], pair[1])
		got, err := restored.Predict(pair[0], pair[1])
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if got != want {
			t.Errorf("restored Predict(%d, %d) = %v, want %v", pair[0], pair[1], got, want)
		}
	}

	if _, err := NewSVD(DefaultSVDConfig()).State(); !errors.Is(err, ErrNotTrained) {
		t.Errorf("State() on untrained model error = %v, want ErrNotTrained", err)
	}
}

func TestRestoreSVDInvalid(t *testing.T) {
	t.Parallel()

	valid := func() *SVDState {
		return &SVDState{
			Config:      SVDConfig{NumFactors: 2},
			Scale:       Scale{Min: 1, Max: 5},
			UserIDs:     []int{1},
			ItemIDs:     []int{10, 11},
			UserBias:    []float64{0},
			ItemBias:    []float64{0, 0},
			UserFactors: []float64{0.1, 0.2},
			ItemFactors: []float64{0.1, 0.2, 0.3, 0.4},
		}
	}

	tests := []struct {
		name   string
		mutate func(s *SVDState)
	}{
		{"zero factors", func(s *SVDState) { s.Config.NumFactors = 0 }},
		{"no users", func(s *SVDState) { s.UserIDs = nil; s.UserBias = nil; s.UserFactors = nil }},
		{"bias mismatch", func(s *SVDState) { s.ItemBias = []float64{0} }},
		{"factor mismatch", func(s *SVDState) { s.ItemFactors = s.ItemFactors[:3] }},
		{"inverted scale", func(s *SVDState) { s.Scale = Scale{Min: 5, Max: 1} }},
		{"duplicate ids", func(s *SVDState) { s.ItemIDs = []int{10, 10} }},
	}

	if _, err := RestoreSVD(valid()); err != nil {
		t.Fatalf("RestoreSVD(valid) error = %v", err)
	}
	if _, err := RestoreSVD(nil); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RestoreSVD(nil) error = %v, want ErrInvalidState", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := valid()
			tt.mutate(state)
			if _, err := RestoreSVD(state); !errors.Is(err, ErrInvalidState) {
				t.Errorf("RestoreSVD() error = %v, want ErrInvalidState", err)
			}
		})
	}
}
