package videos

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

	// Public routes - published content only
	r.Get("/", ListPublishedVideos)
	r.Get("/slug/{slug}", GetVideoBySlug)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(granter))

		r.Get("/admin", ListVideos)
		r.Post("/", CreateVideo)
		r.Put("/{video_id}", UpdateVideo)
		r.Delete("/{video_id}", DeleteVideo)
	})

	return r
}
