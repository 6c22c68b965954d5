package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/drparash/site-backend/internal/auth"
	"github.com/drparash/site-backend/internal/blog"
	"github.com/drparash/site-backend/internal/config"
	"github.com/drparash/site-backend/internal/contacts"
	"github.com/drparash/site-backend/internal/db"
	"github.com/drparash/site-backend/internal/lectures"
	"github.com/drparash/site-backend/internal/middleware"
	"github.com/drparash/site-backend/internal/site"
	"github.com/drparash/site-backend/internal/storage"
	"github.com/drparash/site-backend/internal/videos"
	"github.com/go-chi/chi/v5"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db.Connect()

	uploadsBase := cfg.PublicBaseURL + "/uploads"
	media, err := storage.NewDiskBucket(cfg.UploadsDir, uploadsBase, "media")
	if err != nil {
		log.Fatal("Failed to create media bucket: ", err)
	}
	lecturePhotos, err := storage.NewDiskBucket(cfg.UploadsDir, uploadsBase, "lecture-images")
	if err != nil {
		log.Fatal("Failed to create lecture-images bucket: ", err)
	}

	if cfg.ContactSecret == "" {
		log.Println("CONTACT_WEBHOOK_SECRET is not set; contact submissions will be rejected")
	}

	auth.Init(time.Duration(cfg.SessionHours) * time.Hour)
	blog.Init(media)
	lectures.Init(lecturePhotos)
	videos.Init()
	contacts.Init(cfg.ContactSecret)
	site.Init(cfg.ProfilePath)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/blog", blog.SetupRoutes())
	r.Mount("/videos", videos.SetupRoutes())
	r.Mount("/lectures", lectures.SetupRoutes())
	r.Mount("/contacts", contacts.SetupRoutes())
	r.Mount("/site", site.SetupRoutes())

	// Stored objects are public by URL
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	fmt.Println("Server listening on port :" + cfg.Port + "...")

	http.ListenAndServe("0.0.0.0:"+cfg.Port, r)
}
