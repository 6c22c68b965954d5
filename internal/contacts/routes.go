package contacts

import (
	"net/http"

	"github.com/drparash/site-backend/internal/auth"
	"github.com/drparash/site-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}
	granter := middleware.DBRoleGranter{}

	// Public intake, signed by the form provider
	r.Post("/", SubmitContact)

	// Viewer back office
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.ViewerMiddleware(granter))

		r.Get("/", ListContacts)
		r.Post("/{contact_id}/viewed", MarkContactViewed)
	})

	return r
}
