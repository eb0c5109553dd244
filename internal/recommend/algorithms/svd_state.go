// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when a serialized SVD state is inconsistent.
var ErrInvalidState = errors.New("invalid SVD state")

// SVDState is the serializable state of a fitted SVD model.
type SVDState struct {
	Config      SVDConfig `json:"config"`
	GlobalMean  float64   `json:"global_mean"`
	Scale       Scale     `json:"scale"`
	NumRatings  int       `json:"num_ratings"`
	UserIDs     []int     `json:"user_ids"`
	ItemIDs     []int     `json:"item_ids"`
	UserBias    []float64 `json:"user_bias"`
	ItemBias    []float64 `json:"item_bias"`
	UserFactors []float64 `json:"user_factors"`
	ItemFactors []float64 `json:"item_factors"`
}

// State exports the fitted parameters. The returned slices alias the
// model's own storage and must not be modified.
func (s *SVD) State() (*SVDState, error) {
	if !s.trained {
		return nil, ErrNotTrained
	}
	return &SVDState{
		Config:      s.config,
		GlobalMean:  s.globalMean,
		Scale:       s.scale,
		NumRatings:  s.numRatings,
		UserIDs:     s.indexToUser,
		ItemIDs:     s.indexToItem,
		UserBias:    s.userBias,
		ItemBias:    s.itemBias,
		UserFactors: s.userFactors,
		ItemFactors: s.itemFactors,
	}, nil
}

// RestoreSVD rebuilds a fitted model from a state produced by State.
func RestoreSVD(state *SVDState) (*SVD, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: nil state", ErrInvalidState)
	}
	k := state.Config.NumFactors
	switch {
	case k <= 0:
		return nil, fmt.Errorf("%w: %d factors", ErrInvalidState, k)
	case len(state.UserIDs) == 0 || len(state.ItemIDs) == 0:
		return nil, fmt.Errorf("%w: no users or items", ErrInvalidState)
	case len(state.UserBias) != len(state.UserIDs) || len(state.ItemBias) != len(state.ItemIDs):
		return nil, fmt.Errorf("%w: bias length mismatch", ErrInvalidState)
	case len(state.UserFactors) != len(state.UserIDs)*k || len(state.ItemFactors) != len(state.ItemIDs)*k:
		return nil, fmt.Errorf("%w: factor length mismatch", ErrInvalidState)
	case state.Scale.Min > state.Scale.Max:
		return nil, fmt.Errorf("%w: scale [%v, %v]", ErrInvalidState, state.Scale.Min, state.Scale.Max)
	}

	s := &SVD{
		config:      state.Config,
		globalMean:  state.GlobalMean,
		scale:       state.Scale,
		numRatings:  state.NumRatings,
		userIndex:   make(map[int]int, len(state.UserIDs)),
		itemIndex:   make(map[int]int, len(state.ItemIDs)),
		indexToUser: state.UserIDs,
		indexToItem: state.ItemIDs,
		userBias:    state.UserBias,
		itemBias:    state.ItemBias,
		userFactors: state.UserFactors,
		itemFactors: state.ItemFactors,
		trained:     true,
	}
	for i, id := range state.UserIDs {
		s.userIndex[id] = i
	}
	for i, id := range state.ItemIDs {
		s.itemIndex[id] = i
	}
	if len(s.userIndex) != len(state.UserIDs) || len(s.itemIndex) != len(state.ItemIDs) {
		return nil, fmt.Errorf("%w: duplicate ids", ErrInvalidState)
	}
	return s, nil
}
