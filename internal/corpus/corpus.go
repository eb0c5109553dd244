// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package corpus loads a MovieLens dataset into an immutable in-memory
// catalog plus the historical rating table used to train the model.
//
// Two on-disk layouts are recognised:
//
//   - ml-100k: u.item (pipe separated, Latin-1) and u.data (tab separated)
//   - ml-latest / ml-32m: movies.csv and ratings.csv
//
// The rating tables and movies.csv are scanned through an in-memory DuckDB
// connection with read_csv; u.item is decoded from Latin-1 in Go.
package corpus

import (
	"errors"
	"math/rand"
	"slices"
	"sort"
	"strings"

	"github.com/tomtom215/cinematch/internal/models"
)

// ErrNoDataset is returned when the configured directory holds neither layout.
var ErrNoDataset = errors.New("no MovieLens dataset found")

// DefaultRandomCount is the sample size Random uses for n <= 0.
const DefaultRandomCount = 20

// Format names the detected on-disk layout.
type Format string

const (
	Format100K Format = "ml-100k"
	FormatCSV  Format = "movielens-csv"
)

// Config holds corpus loading configuration.
type Config struct {
	// Path is the dataset directory.
	Path string
}

// Corpus is the loaded catalog and rating table. It is never mutated after
// Load returns and is safe for concurrent use.
type Corpus struct {
	format  Format
	movies  map[int]*models.Movie
	ids     []int
	genres  []string
	ratings []models.HistoricalRating
}

// newCorpus indexes movies and freezes the catalog.
func newCorpus(format Format, movies []models.Movie, ratings []models.HistoricalRating) *Corpus {
	c := &Corpus{
		format:  format,
		movies:  make(map[int]*models.Movie, len(movies)),
		ids:     make([]int, 0, len(movies)),
		ratings: ratings,
	}

	seen := make(map[string]bool)
	for i := range movies {
		m := movies[i]
		if _, dup := c.movies[m.ID]; dup {
			continue
		}
		c.movies[m.ID] = &m
		c.ids = append(c.ids, m.ID)
		for _, g := range m.Genres {
			seen[g] = true
		}
	}
	sort.Ints(c.ids)
	c.genres = orderGenres(seen)
	return c
}

// orderGenres lists canonical genres first in their fixed order, then any
// others (IMAX in ml-latest) alphabetically.
func orderGenres(seen map[string]bool) []string {
	out := make([]string, 0, len(seen))
	for _, g := range models.Genres {
		if seen[g] {
			out = append(out, g)
			delete(seen, g)
		}
	}
	extra := make([]string, 0, len(seen))
	for g := range seen {
		extra = append(extra, g)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Format returns the detected dataset layout.
func (c *Corpus) Format() Format { return c.format }

// Len returns the number of movies in the catalog.
func (c *Corpus) Len() int { return len(c.ids) }

// MovieIDs returns all movie ids in ascending order.
// The returned slice is shared and must not be modified.
func (c *Corpus) MovieIDs() []int { return c.ids }

// MovieByID looks up a movie.
func (c *Corpus) MovieByID(id int) (models.Movie, bool) {
	m, ok := c.movies[id]
	if !ok {
		return models.Movie{}, false
	}
	return *m, true
}

// AllMovies returns every movie ordered by id.
func (c *Corpus) AllMovies() []models.Movie {
	out := make([]models.Movie, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, *c.movies[id])
	}
	return out
}

// Search returns movies whose title contains query, case-insensitively,
// ordered by id. A limit <= 0 returns every match.
func (c *Corpus) Search(query string, limit int) []models.Movie {
	q := strings.ToLower(strings.TrimSpace(query))
	return c.filter(limit, func(m *models.Movie) bool {
		return strings.Contains(strings.ToLower(m.Title), q)
	})
}

// ByGenre returns movies tagged with genre, ordered by id.
// A limit <= 0 returns every match.
func (c *Corpus) ByGenre(genre string, limit int) []models.Movie {
	return c.filter(limit, func(m *models.Movie) bool {
		return m.HasGenre(genre)
	})
}

func (c *Corpus) filter(limit int, keep func(*models.Movie) bool) []models.Movie {
	var out []models.Movie
	for _, id := range c.ids {
		m := c.movies[id]
		if !keep(m) {
			continue
		}
		out = append(out, *m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Random draws min(n, Len()) distinct movies using rng.
// n <= 0 means DefaultRandomCount.
func (c *Corpus) Random(rng *rand.Rand, n int) []models.Movie {
	if n <= 0 {
		n = DefaultRandomCount
	}
	if n > len(c.ids) {
		n = len(c.ids)
	}

	// Partial Fisher-Yates over a copy of the id list.
	pool := slices.Clone(c.ids)
	out := make([]models.Movie, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, *c.movies[pool[i]])
	}
	return out
}

// Genres lists every genre present in the catalog.
func (c *Corpus) Genres() []string {
	return slices.Clone(c.genres)
}

// HistoricalRatings returns the corpus rating table in file order.
// The returned slice is shared and must not be modified.
func (c *Corpus) HistoricalRatings() []models.HistoricalRating {
	return c.ratings
}
