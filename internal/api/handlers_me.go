// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
)

// countRequest bounds the size parameters of the list endpoints.
type countRequest struct {
	N int `json:"n" validate:"min=1,max=100"`
}

// Profile returns the caller's rating summary, badges and most recent ratings.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if errors.Is(err, database.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "User not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load user", err)
		return
	}

	ratings, err := h.store.GetUserRatings(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load ratings", err)
		return
	}
	badges, err := h.store.GetUserBadges(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load badges", err)
		return
	}

	profile := models.Profile{
		UserID:        user.ID,
		Username:      user.Username,
		RatingCount:   len(ratings),
		Badges:        badges,
		RecentRatings: make([]models.RatedMovie, 0, h.config.RecentRatings),
	}

	var sum float64
	for _, rt := range ratings {
		sum += rt.Value
	}
	if len(ratings) > 0 {
		profile.AverageRating = math.Round(sum/float64(len(ratings))*100) / 100
	}

	// Ratings arrive newest first.
	for _, rt := range ratings {
		if len(profile.RecentRatings) == h.config.RecentRatings {
			break
		}
		movie, ok := h.catalog.MovieByID(rt.MovieID)
		if !ok {
			continue
		}
		profile.RecentRatings = append(profile.RecentRatings, models.RatedMovie{
			Movie:   movie,
			Rating:  rt.Value,
			RatedAt: rt.RatedAt,
		})
	}

	respondSuccess(w, http.StatusOK, profile, start)
}

// Recommendations returns predicted-rating recommendations for the caller.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, n, ok := h.gatedRequest(w, r, "n", h.config.DefaultCount, h.config.MinRatingsForRecommendations)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	recs, err := h.recommender.RecommendFor(ctx, userID, n)
	if err != nil {
		respondServiceError(w, "Failed to compute recommendations", err)
		return
	}

	respondSuccess(w, http.StatusOK, recs, start)
}

// SimilarUsers returns the users whose tastes best match the caller's.
func (h *Handler) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, topN, ok := h.gatedRequest(w, r, "top_n", h.config.DefaultSimilarUsers, h.config.MinRatingsForSimilarUsers)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	similar, err := h.recommender.FindSimilarUsers(ctx, userID, topN)
	if err != nil {
		respondServiceError(w, "Failed to find similar users", err)
		return
	}

	respondSuccess(w, http.StatusOK, similar, start)
}

// TopRated returns another user's highest rated movies.
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := getIDParam(r, "userID")
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid user id", nil)
		return
	}
	k, err := getIntParam(r, "k", h.config.DefaultTopRated)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "k must be an integer", nil)
		return
	}
	if apiErr := validateRequest(&countRequest{N: k}); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if errors.Is(err, database.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "User not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load user", err)
		return
	}

	movies, err := h.recommender.TopRated(r.Context(), userID, k)
	if err != nil {
		respondServiceError(w, "Failed to load top rated movies", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"movies":   movies,
	}, start)
}

// gatedRequest resolves the caller and a size parameter, and rejects
// callers with fewer than minRatings ratings. It writes the error response
// itself and returns ok=false when the request must stop.
func (h *Handler) gatedRequest(w http.ResponseWriter, r *http.Request, param string, def, minRatings int) (userID, n int, ok bool) {
	userID, ok = callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return 0, 0, false
	}

	n, err := getIntParam(r, param, def)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, param+" must be an integer", nil)
		return 0, 0, false
	}
	if apiErr := validateRequest(&countRequest{N: n}); apiErr != nil {
		// The struct field is always n; report the real parameter name.
		apiErr.Message = fmt.Sprintf("%s must be between 1 and 100", param)
		apiErr.Details = map[string]interface{}{"field": param}
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return 0, 0, false
	}

	count, err := h.store.CountRatings(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to count ratings", err)
		return 0, 0, false
	}
	if count < minRatings {
		respondAPIError(w, http.StatusConflict, &models.APIError{
			Code:    ErrCodeInsufficientRatings,
			Message: fmt.Sprintf("Rate at least %d movies first", minRatings),
			Details: map[string]interface{}{
				"required": minRatings,
				"current":  count,
			},
		})
		return 0, 0, false
	}
	return userID, n, true
}

// respondServiceError maps recommender failures to responses.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", err)
		return
	}
	respondError(w, http.StatusInternalServerError, ErrCodeInternalError, message, err)
}
