// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
)

// credentialsRequest is the body of signup and login.
type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Signup creates an account and returns a session token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req credentialsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	user, token, err := h.accounts.Signup(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, database.ErrUsernameTaken):
		respondError(w, http.StatusConflict, ErrCodeConflict, "Username is already taken", nil)
		return
	case errors.Is(err, auth.ErrPasswordTooLong):
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, "password must be at most 72 bytes", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to create account", err)
		return
	}

	h.setTokenCookie(w, token)
	respondSuccess(w, http.StatusCreated, models.AuthResponse{Token: token, User: user}, start)
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req credentialsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, "username and password are required", nil)
		return
	}

	user, token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid username or password", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Login failed", err)
		return
	}

	h.setTokenCookie(w, token)
	respondSuccess(w, http.StatusOK, models.AuthResponse{Token: token, User: user}, start)
}

// setTokenCookie stores the token for browser clients. API clients use the
// Authorization header instead.
func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.SessionTimeout.Seconds()),
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
