// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package corpus

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	// DuckDB driver - in-memory instance used as a CSV scanner
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/cinematch/internal/models"
)

// File names of the two supported layouts.
const (
	itemFile100K   = "u.item"
	ratingFile100K = "u.data"
	moviesCSV      = "movies.csv"
	ratingsCSV     = "ratings.csv"
	noGenresListed = "(no genres listed)"
)

// u.item column layout: id|title|release|video release|imdb url|unknown|18 genre flags.
const (
	itemFlagOffset = 6
	itemColumns    = itemFlagOffset + 18
)

// cancelCheckEvery bounds how many rows are scanned between context checks.
const cancelCheckEvery = 1 << 16

// Load detects the dataset layout under cfg.Path and reads it fully.
// The ml-100k layout wins when both are present.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Load(ctx context.Context, cfg Config, logger zerolog.Logger) (*Corpus, error) {
	log := logger.With().Str("component", "corpus").Str("path", cfg.Path).Logger()
	start := time.Now()

	format, err := detectFormat(cfg.Path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("format", string(format)).Msg("Loading MovieLens dataset")

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb scanner: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Error closing duckdb scanner")
		}
	}()

	var (
		movies  []models.Movie
		ratings []models.HistoricalRating
	)
	switch format {
	case Format100K:
		movies, err = readItemFile(ctx, filepath.Join(cfg.Path, itemFile100K))
		if err != nil {
			return nil, err
		}
		ratings, err = scanRatings(ctx, db, filepath.Join(cfg.Path, ratingFile100K), ratingQuery100K)
	default:
		movies, err = scanMoviesCSV(ctx, db, filepath.Join(cfg.Path, moviesCSV))
		if err != nil {
			return nil, err
		}
		ratings, err = scanRatings(ctx, db, filepath.Join(cfg.Path, ratingsCSV), ratingQueryCSV)
	}
	if err != nil {
		return nil, err
	}

	c := newCorpus(format, movies, ratings)
	log.Info().
		Int("movies", c.Len()).
		Int("ratings", len(ratings)).
		Int("genres", len(c.genres)).
		Dur("duration", time.Since(start)).
		Msg("MovieLens dataset loaded")
	return c, nil
}

func detectFormat(dir string) (Format, error) {
	if fileExists(filepath.Join(dir, itemFile100K)) {
		return Format100K, nil
	}
	if fileExists(filepath.Join(dir, moviesCSV)) {
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoDataset, dir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// readItemFile parses the ml-100k u.item file.
func readItemFile(ctx context.Context, path string) ([]models.Movie, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", itemFile100K, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	scanner := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(f))
	var movies []models.Movie
	line := 0
	for scanner.Scan() {
		line++
		if line%cancelCheckEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		m, err := parseItemLine(text)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", itemFile100K, line, err)
		}
		movies = append(movies, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", itemFile100K, err)
	}
	return movies, nil
}

func parseItemLine(text string) (models.Movie, error) {
	fields := strings.Split(text, "|")
	if len(fields) < itemColumns {
		return models.Movie{}, fmt.Errorf("expected %d fields, got %d", itemColumns, len(fields))
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return models.Movie{}, fmt.Errorf("invalid movie id %q: %w", fields[0], err)
	}

	genres := make([]string, 0, 3)
	for i, g := range models.Genres {
		if strings.TrimSpace(fields[itemFlagOffset+i]) == "1" {
			genres = append(genres, g)
		}
	}
	return models.Movie{ID: id, Title: strings.TrimSpace(fields[1]), Genres: genres}, nil
}

const moviesQueryCSV = `
SELECT movieId, title, genres
FROM read_csv(?, header = true, quote = '"', escape = '"',
	columns = {'movieId': 'INTEGER', 'title': 'VARCHAR', 'genres': 'VARCHAR'})`

// scanMoviesCSV reads movies.csv through DuckDB's CSV reader so that quoted
// titles with embedded commas are handled.
func scanMoviesCSV(ctx context.Context, db *sql.DB, path string) ([]models.Movie, error) {
	rows, err := db.QueryContext(ctx, moviesQueryCSV, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", moviesCSV, err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var (
			id     int
			title  string
			genres sql.NullString
		)
		if err := rows.Scan(&id, &title, &genres); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", moviesCSV, err)
		}
		movies = append(movies, models.Movie{
			ID:     id,
			Title:  strings.TrimSpace(title),
			Genres: splitGenres(genres.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", moviesCSV, err)
	}
	return movies, nil
}

func splitGenres(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == noGenresListed {
		return []string{}
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const (
	ratingQuery100K = `
SELECT user_id, movie_id, rating
FROM read_csv(?, delim = '\t', header = false,
	columns = {'user_id': 'INTEGER', 'movie_id': 'INTEGER', 'rating': 'FLOAT', 'ts': 'BIGINT'})`

	ratingQueryCSV = `
SELECT userId, movieId, rating
FROM read_csv(?, header = true,
	columns = {'userId': 'INTEGER', 'movieId': 'INTEGER', 'rating': 'FLOAT', 'timestamp': 'BIGINT'})`
)

// scanRatings streams a rating table in file order.
func scanRatings(ctx context.Context, db *sql.DB, path, query string) ([]models.HistoricalRating, error) {
	name := filepath.Base(path)
	if !fileExists(path) {
		return nil, fmt.Errorf("%w: missing %s", ErrNoDataset, name)
	}

	rows, err := db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	defer rows.Close()

	var (
		ratings []models.HistoricalRating
		r       models.HistoricalRating
	)
	for rows.Next() {
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", name, err)
		}
		ratings = append(ratings, r)
		if len(ratings)%cancelCheckEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", name, err)
	}
	return ratings, nil
}
