// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

const readinessTimeout = 2 * time.Second

// HealthLive reports that the process is up. It never touches dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":         "alive",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}, start)
}

// HealthReady reports whether the ratings store answers and a model is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := models.HealthStatus{
		Status:        "ready",
		Database:      "ok",
		Model:         "ok",
		CatalogMovies: h.catalog.Len(),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("readiness: database ping failed")
		status.Status = "not_ready"
		status.Database = "unavailable"
	}

	if info := h.model.Load(); info != nil {
		status.ModelInfo = info
	} else {
		status.Status = "not_ready"
		status.Model = "training"
	}

	code := http.StatusOK
	if status.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	respondSuccess(w, code, status, start)
}
