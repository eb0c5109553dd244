// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
)

// memStore is an in-memory Store.
type memStore struct {
	mu      sync.Mutex
	users   map[int]*models.User
	ratings map[int][]models.Rating // newest first
	badges  map[int][]models.Badge
	pingErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[int]*models.User),
		ratings: make(map[int][]models.Rating),
		badges:  make(map[int][]models.Badge),
	}
}

func (s *memStore) addUser(id int, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &models.User{ID: id, Username: name}
}

func (s *memStore) Ping(context.Context) error { return s.pingErr }

func (s *memStore) GetUserByID(_ context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) UpsertRating(_ context.Context, userID, movieID int, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.Rating, 0, len(s.ratings[userID])+1)
	kept = append(kept, models.Rating{UserID: userID, MovieID: movieID, Value: rating, RatedAt: time.Now()})
	for _, r := range s.ratings[userID] {
		if r.MovieID != movieID {
			kept = append(kept, r)
		}
	}
	s.ratings[userID] = kept
	return nil
}

func (s *memStore) GetUserRatings(_ context.Context, userID int) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Rating{}, s.ratings[userID]...), nil
}

func (s *memStore) GetUserRatingForMovie(_ context.Context, userID, movieID int) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings[userID] {
		if r.MovieID == movieID {
			return &r, nil
		}
	}
	return nil, database.ErrRatingNotFound
}

func (s *memStore) CountRatings(_ context.Context, userID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ratings[userID]), nil
}

func (s *memStore) GetUserBadges(_ context.Context, userID int) ([]models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Badge{}, s.badges[userID]...), nil
}

// memCatalog is a fixed catalog.
type memCatalog struct {
	movies []models.Movie
}

func newMemCatalog() *memCatalog {
	return &memCatalog{movies: []models.Movie{
		{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation", "Children", "Comedy"}},
		{ID: 2, Title: "GoldenEye (1995)", Genres: []string{"Action", "Adventure", "Thriller"}},
		{ID: 3, Title: "Four Rooms (1995)", Genres: []string{"Thriller"}},
		{ID: 4, Title: "Get Shorty (1995)", Genres: []string{"Action", "Comedy", "Drama"}},
		{ID: 5, Title: "Copycat (1995)", Genres: []string{"Crime", "Drama", "Thriller"}},
		{ID: 6, Title: "Toy Soldiers (1991)", Genres: []string{"Action"}},
	}}
}

func (c *memCatalog) Len() int { return len(c.movies) }

func (c *memCatalog) MovieByID(id int) (models.Movie, bool) {
	for _, m := range c.movies {
		if m.ID == id {
			return m, true
		}
	}
	return models.Movie{}, false
}

func (c *memCatalog) Search(query string, limit int) []models.Movie {
	return c.filter(limit, func(m *models.Movie) bool {
		return strings.Contains(strings.ToLower(m.Title), strings.ToLower(query))
	})
}

func (c *memCatalog) ByGenre(genre string, limit int) []models.Movie {
	return c.filter(limit, func(m *models.Movie) bool { return m.HasGenre(genre) })
}

func (c *memCatalog) filter(limit int, keep func(*models.Movie) bool) []models.Movie {
	out := make([]models.Movie, 0)
	for i := range c.movies {
		if len(out) == limit {
			break
		}
		if keep(&c.movies[i]) {
			out = append(out, c.movies[i])
		}
	}
	return out
}

func (c *memCatalog) Random(rng *rand.Rand, n int) []models.Movie {
	perm := rng.Perm(len(c.movies))
	if n > len(perm) {
		n = len(perm)
	}
	out := make([]models.Movie, n)
	for i := 0; i < n; i++ {
		out[i] = c.movies[perm[i]]
	}
	return out
}

func (c *memCatalog) Genres() []string {
	return []string{"Action", "Adventure", "Animation", "Children", "Comedy", "Crime", "Drama", "Thriller"}
}

// stubRecommender returns canned results and records arguments.
type stubRecommender struct {
	mu      sync.Mutex
	lastN   int
	recs    []models.RecommendedMovie
	similar []models.SimilarUser
	top     []models.RatedMovie
	err     error
}

func (s *stubRecommender) RecommendFor(_ context.Context, _ int, n int) ([]models.RecommendedMovie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastN = n
	return s.recs, s.err
}

func (s *stubRecommender) FindSimilarUsers(_ context.Context, _ int, topN int) ([]models.SimilarUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastN = topN
	return s.similar, s.err
}

func (s *stubRecommender) TopRated(_ context.Context, _ int, k int) ([]models.RatedMovie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastN = k
	return s.top, s.err
}

// stubBadges awards a fixed list once.
type stubBadges struct {
	awards []string
	err    error
}

func (b *stubBadges) Evaluate(context.Context, int) ([]string, error) {
	return b.awards, b.err
}

// memAccounts issues real tokens for a fixed password table.
type memAccounts struct {
	mu     sync.Mutex
	jwt    *auth.JWTManager
	store  *memStore
	nextID int
	pass   map[string]string
	ids    map[string]int
}

func (a *memAccounts) Signup(_ context.Context, username, password string) (*models.User, string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.pass[username]; ok {
		return nil, "", database.ErrUsernameTaken
	}
	a.nextID++
	a.pass[username] = password
	a.ids[username] = a.nextID
	a.store.addUser(a.nextID, username)
	token, err := a.jwt.GenerateToken(a.nextID, username)
	if err != nil {
		return nil, "", err
	}
	return &models.User{ID: a.nextID, Username: username}, token, nil
}

func (a *memAccounts) Login(_ context.Context, username, password string) (*models.User, string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.pass[username]; !ok || p != password {
		return nil, "", auth.ErrInvalidCredentials
	}
	token, err := a.jwt.GenerateToken(a.ids[username], username)
	if err != nil {
		return nil, "", err
	}
	return &models.User{ID: a.ids[username], Username: username}, token, nil
}

// testEnv is a fully wired router over in-memory dependencies.
type testEnv struct {
	handler     *Handler
	server      http.Handler
	store       *memStore
	recommender *stubRecommender
	badges      *stubBadges
	accounts    *memAccounts
	jwt         *auth.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{
		JWTSecret:      "test-secret-that-is-long-enough-for-hs256",
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	store := newMemStore()
	env := &testEnv{
		store:       store,
		recommender: &stubRecommender{},
		badges:      &stubBadges{},
		accounts: &memAccounts{
			jwt:    jwtManager,
			store:  store,
			nextID: 100,
			pass:   make(map[string]string),
			ids:    make(map[string]int),
		},
		jwt: jwtManager,
	}

	cfg := DefaultHandlerConfig()
	cfg.BrowseSeed = 42
	env.handler = NewHandler(HandlerDeps{
		Store:       store,
		Catalog:     newMemCatalog(),
		Recommender: env.recommender,
		Badges:      env.badges,
		Accounts:    env.accounts,
	}, cfg, zerolog.Nop())

	chiCfg := DefaultChiMiddlewareConfig()
	chiCfg.RateLimitDisabled = true
	env.server = NewRouter(env.handler, auth.NewMiddleware(jwtManager), NewChiMiddleware(chiCfg)).Setup()
	return env
}

// tokenFor registers user id in the store and returns a bearer token.
func (e *testEnv) tokenFor(t *testing.T, id int, name string) string {
	t.Helper()
	e.store.addUser(id, name)
	token, err := e.jwt.GenerateToken(id, name)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}

// rate stores n ratings for user id directly.
func (e *testEnv) rate(t *testing.T, id int, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		if err := e.store.UpsertRating(context.Background(), id, i, 4); err != nil {
			t.Fatalf("UpsertRating() error = %v", err)
		}
	}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// envelope decodes a response body, with Data left raw for the caller.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a JSON envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Fatalf("status = %q, error = %+v", env.Status, env.Error)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}
