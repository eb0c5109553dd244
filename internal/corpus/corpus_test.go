// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package corpus

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// genreFlags builds the 19 u.item flag columns (unknown first) for the given genre indexes.
func genreFlags(set ...int) string {
	flags := make([]string, 19)
	for i := range flags {
		flags[i] = "0"
	}
	for _, idx := range set {
		flags[idx+1] = "1"
	}
	return strings.Join(flags, "|")
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// write100K creates a tiny ml-100k fixture. Movie 3 carries a Latin-1 e-acute.
func write100K(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var item []byte
	item = append(item, "1|Toy Story (1995)|01-Jan-1995||http://x|"+genreFlags(2, 3, 4)+"\n"...)
	item = append(item, "2|GoldenEye (1995)|01-Jan-1995||http://x|"+genreFlags(0, 1, 15)+"\n"...)
	item = append(item, "3|Caf"...)
	item = append(item, 0xE9)
	item = append(item, " Society (1996)|01-Jan-1996||http://x|"+genreFlags(7)+"\n"...)
	item = append(item, "4|Mystery Reel (1997)|01-Jan-1997||http://x|"+genreFlags()+"\n"...)
	writeFile(t, dir, itemFile100K, item)

	data := "196\t1\t3\t881250949\n186\t2\t5\t891717742\n22\t3\t1\t878887116\n196\t3\t4\t881250950\n"
	writeFile(t, dir, ratingFile100K, []byte(data))
	return dir
}

func writeCSV(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	movies := "movieId,title,genres\n" +
		"1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy\n" +
		"10,\"American President, The (1995)\",Comedy|Drama|Romance\n" +
		"5,Dark Knight IMAX (2008),Action|IMAX\n" +
		"7,Untitled (2019),(no genres listed)\n"
	writeFile(t, dir, moviesCSV, []byte(movies))

	ratings := "userId,movieId,rating,timestamp\n" +
		"1,1,4.0,964982703\n" +
		"1,10,3.5,964981247\n" +
		"2,5,0.5,964982224\n"
	writeFile(t, dir, ratingsCSV, []byte(ratings))
	return dir
}

func TestLoad100K(t *testing.T) {
	c, err := Load(context.Background(), Config{Path: write100K(t)}, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Format() != Format100K {
		t.Errorf("Format() = %q, want %q", c.Format(), Format100K)
	}
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}

	toy, ok := c.MovieByID(1)
	if !ok {
		t.Fatal("MovieByID(1) not found")
	}
	if strings.Join(toy.Genres, ",") != "Animation,Children,Comedy" {
		t.Errorf("Toy Story genres = %v, want [Animation Children Comedy]", toy.Genres)
	}

	cafe, _ := c.MovieByID(3)
	if cafe.Title != "Café Society (1996)" {
		t.Errorf("Latin-1 title = %q, want %q", cafe.Title, "Café Society (1996)")
	}

	unknown, _ := c.MovieByID(4)
	if len(unknown.Genres) != 0 {
		t.Errorf("unknown-only movie genres = %v, want none", unknown.Genres)
	}

	ratings := c.HistoricalRatings()
	if len(ratings) != 4 {
		t.Fatalf("len(HistoricalRatings()) = %d, want 4", len(ratings))
	}
	if ratings[0].UserID != 196 || ratings[0].MovieID != 1 || ratings[0].Value != 3 {
		t.Errorf("first rating = %+v, want {196 1 3}", ratings[0])
	}
	if ratings[3].UserID != 196 || ratings[3].MovieID != 3 {
		t.Errorf("file order not preserved: last rating = %+v", ratings[3])
	}
}

func TestLoadCSV(t *testing.T) {
	c, err := Load(context.Background(), Config{Path: writeCSV(t)}, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Format() != FormatCSV {
		t.Errorf("Format() = %q, want %q", c.Format(), FormatCSV)
	}
	if ids := c.MovieIDs(); len(ids) != 4 || ids[0] != 1 || ids[1] != 5 || ids[2] != 7 || ids[3] != 10 {
		t.Errorf("MovieIDs() = %v, want [1 5 7 10]", ids)
	}

	pres, ok := c.MovieByID(10)
	if !ok || pres.Title != "American President, The (1995)" {
		t.Errorf("quoted title = %q, want %q", pres.Title, "American President, The (1995)")
	}

	untitled, _ := c.MovieByID(7)
	if len(untitled.Genres) != 0 {
		t.Errorf("(no genres listed) genres = %v, want none", untitled.Genres)
	}

	genres := c.Genres()
	if genres[len(genres)-1] != "IMAX" {
		t.Errorf("Genres() = %v, want non-canonical IMAX last", genres)
	}
	if genres[0] != "Action" {
		t.Errorf("Genres()[0] = %q, want Action", genres[0])
	}

	ratings := c.HistoricalRatings()
	if len(ratings) != 3 || ratings[2].Value != 0.5 {
		t.Errorf("HistoricalRatings() = %+v, want 3 rows ending in 0.5", ratings)
	}
}

func TestLoadNoDataset(t *testing.T) {
	_, err := Load(context.Background(), Config{Path: t.TempDir()}, zerolog.New(io.Discard))
	if !errors.Is(err, ErrNoDataset) {
		t.Fatalf("Load() error = %v, want ErrNoDataset", err)
	}
}

func TestLoadMissingRatings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, itemFile100K, []byte("1|Toy Story (1995)|||x|"+genreFlags(2)+"\n"))

	_, err := Load(context.Background(), Config{Path: dir}, zerolog.New(io.Discard))
	if !errors.Is(err, ErrNoDataset) {
		t.Fatalf("Load() error = %v, want ErrNoDataset", err)
	}
}

func TestParseItemLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "1|Toy Story"},
		{"bad id", "x|Toy Story (1995)|||x|" + genreFlags()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseItemLine(tt.line); err == nil {
				t.Errorf("parseItemLine(%q) expected error", tt.line)
			}
		})
	}
}

func testCorpus(t *testing.T) *Corpus {
	t.Helper()
	c, err := Load(context.Background(), Config{Path: write100K(t)}, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestSearch(t *testing.T) {
	c := testCorpus(t)

	tests := []struct {
		name  string
		query string
		limit int
		want  []int
	}{
		{"case insensitive", "toy story", 0, []int{1}},
		{"year substring", "(1995)", 0, []int{1, 2}},
		{"limit applied", "(199", 2, []int{1, 2}},
		{"no match", "matrix", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.query, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d movies, want %d", tt.query, len(got), len(tt.want))
			}
			for i, m := range got {
				if m.ID != tt.want[i] {
					t.Errorf("Search(%q)[%d].ID = %d, want %d", tt.query, i, m.ID, tt.want[i])
				}
			}
		})
	}
}

func TestByGenre(t *testing.T) {
	c := testCorpus(t)

	if got := c.ByGenre("Action", 0); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("ByGenre(Action) = %v, want [GoldenEye]", got)
	}
	if got := c.ByGenre("Western", 0); len(got) != 0 {
		t.Errorf("ByGenre(Western) = %v, want empty", got)
	}
}

func TestRandom(t *testing.T) {
	c := testCorpus(t)
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // G404: deterministic test sampling

	got := c.Random(rng, 3)
	if len(got) != 3 {
		t.Fatalf("Random(3) returned %d movies, want 3", len(got))
	}
	seen := make(map[int]bool)
	for _, m := range got {
		if seen[m.ID] {
			t.Errorf("Random returned duplicate movie %d", m.ID)
		}
		seen[m.ID] = true
	}

	if all := c.Random(rng, 0); len(all) != 4 {
		t.Errorf("Random(0) returned %d movies, want all 4 (default 20 capped at catalog size)", len(all))
	}

	a := c.Random(rand.New(rand.NewSource(99)), 2) //nolint:gosec // G404: deterministic test sampling
	b := c.Random(rand.New(rand.NewSource(99)), 2) //nolint:gosec // G404: deterministic test sampling
	if a[0].ID != b[0].ID || a[1].ID != b[1].ID {
		t.Errorf("Random with equal seeds differs: %v vs %v", a, b)
	}
}

func TestAllMoviesOrdered(t *testing.T) {
	c := testCorpus(t)
	all := c.AllMovies()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("AllMovies() not ordered by id: %v", all)
		}
	}
}
