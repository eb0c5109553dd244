// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation provides request validation using go-playground/validator v10.
//
// A single validator instance is shared process wide; it caches struct
// metadata and is safe for concurrent use. Two custom tags are registered:
//
//	rating    float in [0.5, 5.0] in half-star steps
//	username  letters, digits, '.', '_' and '-'
//
// Field names in messages come from json tags:
//
//	type rateRequest struct {
//	    Rating float64 `json:"rating" validate:"rating"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
