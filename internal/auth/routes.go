package auth

import (
	"net/http"

	"github.com/drparash/site-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	return setupRoutes(middleware.LoginRateLimiter())
}

// SetupRoutesWithoutRateLimit mounts the same routes minus the login
// limiter. Used by tests that log in more often than the burst allows.
func SetupRoutesWithoutRateLimit() http.Handler {
	return setupRoutes(nil)
}

func setupRoutes(loginLimiter func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	// Brute-force protection on the credential exchange only
	if loginLimiter != nil {
		r.With(loginLimiter).Post("/login", LoginHandler)
	} else {
		r.Post("/login", LoginHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Post("/logout", LogoutHandler)
		r.Get("/me", MeHandler)
		r.Post("/password", UpdatePasswordHandler)
	})

	return r
}
