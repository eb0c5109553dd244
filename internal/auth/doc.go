// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package auth provides account signup, login and JWT request authentication.

Key Components:

  - Service: Signup and Login against a UserStore (the DuckDB ratings store)
  - JWTManager: HS256 token generation and validation
  - Middleware: chi-compatible Authenticate handler that stores *Claims in
    the request context
  - HashPassword / CheckPassword: bcrypt password hashing

Passwords are hashed with bcrypt at security.bcrypt_cost and never stored in
plain text. Login returns ErrInvalidCredentials both for unknown users and for
wrong passwords, and spends a bcrypt comparison in both cases.

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	accounts := auth.NewService(db, jwtManager, cfg.Security.BcryptCost, logger)
	mw := auth.NewMiddleware(jwtManager)

	r.Group(func(r chi.Router) {
	    r.Use(mw.Authenticate)
	    r.Get("/me/profile", h.Profile)
	})

Handlers read the caller with ClaimsFromContext.
*/
package auth
