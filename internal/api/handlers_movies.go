// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

// movieListRequest holds the catalog browse parameters.
type movieListRequest struct {
	Query string `json:"q" validate:"max=200"`
	Genre string `json:"genre" validate:"max=50"`
	N     int    `json:"n" validate:"min=1,max=100"`
}

// rateRequest is the body of PUT /movies/{movieID}/rating.
type rateRequest struct {
	Rating float64 `json:"rating" validate:"required,rating"`
}

// Movies lists catalog entries. q searches titles, genre filters by genre,
// and with neither a random sample of n movies is returned.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	n, err := getIntParam(r, "n", h.config.DefaultBrowse)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "n must be an integer", nil)
		return
	}
	req := movieListRequest{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Genre: strings.TrimSpace(r.URL.Query().Get("genre")),
		N:     n,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	var movies []models.Movie
	switch {
	case req.Query != "":
		movies = h.catalog.Search(req.Query, req.N)
	case req.Genre != "":
		if !h.knownGenre(req.Genre) {
			respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, "unknown genre: "+req.Genre, nil)
			return
		}
		movies = h.catalog.ByGenre(req.Genre, req.N)
	default:
		movies = h.randomMovies(req.N)
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	respondSuccess(w, http.StatusOK, movies, start)
}

func (h *Handler) knownGenre(genre string) bool {
	for _, g := range h.catalog.Genres() {
		if g == genre {
			return true
		}
	}
	return false
}

// Genres lists the catalog genres.
func (h *Handler) Genres(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, h.catalog.Genres(), start)
}

// Movie returns one movie with the caller's rating, if any.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}
	movieID, ok := getIDParam(r, "movieID")
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid movie id", nil)
		return
	}
	movie, ok := h.catalog.MovieByID(movieID)
	if !ok {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
		return
	}

	detail := models.MovieDetail{Movie: movie}
	rating, err := h.store.GetUserRatingForMovie(r.Context(), userID, movieID)
	switch {
	case errors.Is(err, database.ErrRatingNotFound):
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load rating", err)
		return
	default:
		detail.UserRating = &rating.Value
		detail.RatedAt = &rating.RatedAt
	}

	respondSuccess(w, http.StatusOK, detail, start)
}

// RateMovie stores the caller's rating and evaluates badges. Badge
// evaluation failures are logged and do not fail the request; the rating
// is already stored.
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := callerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}
	movieID, ok := getIDParam(r, "movieID")
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid movie id", nil)
		return
	}
	if _, ok := h.catalog.MovieByID(movieID); !ok {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
		return
	}

	var req rateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.store.UpsertRating(r.Context(), userID, movieID, req.Rating); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to save rating", err)
		return
	}

	awarded, err := h.badges.Evaluate(r.Context(), userID)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int("user_id", userID).Msg("badge evaluation failed")
		awarded = nil
	}
	if awarded == nil {
		awarded = []string{}
	}

	respondSuccess(w, http.StatusOK, models.RatingResult{
		MovieID:   movieID,
		Rating:    req.Rating,
		NewBadges: awarded,
	}, start)
}
