// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong
// password. The two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service registers and authenticates users.
type Service struct {
	users      UserStore
	jwtManager *JWTManager
	bcryptCost int
	logger     zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewService creates an account service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(users UserStore, jwtManager *JWTManager, bcryptCost int, logger zerolog.Logger) *Service {
	return &Service{
		users:      users,
		jwtManager: jwtManager,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "auth").Logger(),
	}
}

// Signup creates a user and returns it with a session token.
// Returns database.ErrUsernameTaken when the name is in use.
func (s *Service) Signup(ctx context.Context, username, password string) (*models.User, string, error) {
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		return nil, "", fmt.Errorf("signup %q: %w", username, err)
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("user signed up")
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrUserNotFound) {
		// Spend the same bcrypt work as a real comparison.
		CheckPassword(s.timingHash(), password)
		s.logger.Debug().Str("username", username).Msg("login for unknown user")
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("login %q: %w", username, err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Debug().Int("user_id", user.ID).Msg("login with wrong password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// timingHash lazily builds a hash at the configured cost for unknown-user logins.
func (s *Service) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := HashPassword("cinematch-timing-equalizer", s.bcryptCost)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to build timing hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
