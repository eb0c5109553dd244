// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import "strings"

// Genres is the canonical MovieLens genre list in display order.
// Genre-based achievements are evaluated over this list only.
var Genres = []string{
	"Action", "Adventure", "Animation", "Children", "Comedy",
	"Crime", "Documentary", "Drama", "Fantasy", "Film-Noir",
	"Horror", "Musical", "Mystery", "Romance", "Sci-Fi",
	"Thriller", "War", "Western",
}

// Movie is a catalog entry. Movies are immutable once loaded.
type Movie struct {
	ID     int      `json:"movie_id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}

// HasGenre reports whether the movie carries the given genre flag.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// GenreString joins genres the way the catalog UI displays them.
func (m *Movie) GenreString() string {
	return strings.Join(m.Genres, ", ")
}
