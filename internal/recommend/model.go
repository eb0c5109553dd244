// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// Predictor estimates the rating a user would give a movie.
type Predictor interface {
	Predict(userID, movieID int) (float64, error)
}

// ModelInfo describes how a model was trained.
type ModelInfo struct {
	// Fingerprint identifies the training input, see Fingerprint.
	Fingerprint string `json:"fingerprint"`

	Factors int `json:"factors"`
	Epochs  int `json:"epochs"`

	// TableRows is the size of the table handed to Train; TrainingRows is
	// the number of rows actually fitted after subsampling.
	TableRows    int  `json:"table_rows"`
	TrainingRows int  `json:"training_rows"`
	Sampled      bool `json:"sampled"`

	Users      int              `json:"users"`
	Movies     int              `json:"movies"`
	Scale      algorithms.Scale `json:"scale"`
	GlobalMean float64          `json:"global_mean"`

	TrainedAt        time.Time     `json:"trained_at"`
	TrainingDuration time.Duration `json:"training_duration"`
}

// Model is a trained rating model. It is never mutated after construction
// and is safe for concurrent use.
type Model struct {
	svd  *algorithms.SVD
	info ModelInfo
}

// Predict returns the estimated rating clipped to the trained scale.
// Pairs never seen in training fall back to bias terms.
func (m *Model) Predict(userID, movieID int) (float64, error) {
	return m.svd.Predict(userID, movieID)
}

// Info returns training metadata.
func (m *Model) Info() ModelInfo {
	return m.info
}

// Snapshot is the persisted form of a Model.
type Snapshot struct {
	Info  ModelInfo             `json:"info"`
	State *algorithms.SVDState `json:"state"`
}

// Snapshot exports the model. The returned state shares the model's
// parameter slices and must be treated as read-only.
func (m *Model) Snapshot() (*Snapshot, error) {
	state, err := m.svd.State()
	if err != nil {
		return nil, err
	}
	return &Snapshot{Info: m.info, State: state}, nil
}

// ModelFromSnapshot restores a model exported with Snapshot.
func ModelFromSnapshot(s *Snapshot) (*Model, error) {
	if s == nil || s.State == nil {
		return nil, fmt.Errorf("%w: empty snapshot", ErrSnapshotMismatch)
	}
	if s.Info.Factors != s.State.Config.NumFactors {
		return nil, fmt.Errorf("%w: info has %d factors, state has %d",
			ErrSnapshotMismatch, s.Info.Factors, s.State.Config.NumFactors)
	}

	svd, err := algorithms.RestoreSVD(s.State)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotMismatch, err)
	}
	return &Model{svd: svd, info: s.Info}, nil
}
