package blog

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
	r.Get("/posts", ListPublishedPosts)
	r.Get("/posts/slug/{slug}", GetPostBySlug)

	// Admin routes - require authentication and the admin role
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(granter))

		r.Get("/admin/posts", ListPosts)
		r.Post("/admin/posts", CreatePost)
		r.Put("/admin/posts/{post_id}", UpdatePost)
		r.Delete("/admin/posts/{post_id}", DeletePost)
		r.Post("/admin/posts/{post_id}/images", UploadPostImages)
	})

	return r
}
