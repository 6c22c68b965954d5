package lectures

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

	// Public routes
	r.Get("/", ListLectures)
	r.Get("/slug/{slug}", GetLectureBySlug)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(granter))

		r.Post("/", CreateLecture)
		r.Put("/{lecture_id}", UpdateLecture)
		r.Delete("/{lecture_id}", DeleteLecture)
		r.Post("/{lecture_id}/images", UploadLectureImages)
	})

	return r
}
