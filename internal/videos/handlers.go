package videos

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/drparash/site-backend/internal/db"
	"github.com/drparash/site-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// ListVideos returns all videos including drafts, newest first. Admin surface.
func ListVideos(w http.ResponseWriter, r *http.Request) {
	var videos []Video

	if err := db.DB.WithContext(r.Context()).Order("created_at DESC").Find(&videos).Error; err != nil {
		http.Error(w, "Failed to fetch videos: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(videos)
}

// ListPublishedVideos returns only published videos for the public site.
func ListPublishedVideos(w http.ResponseWriter, r *http.Request) {
	var videos []Video

	err := db.DB.WithContext(r.Context()).
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		http.Error(w, "Failed to fetch videos: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(videos)
}

// GetVideoBySlug returns a single published video; stored slugs are trimmed
// before matching and a miss is 404, not 500. Drafts read as absent on the
// public surface.
func GetVideoBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))

	var video Video
	err := db.DB.WithContext(r.Context()).Where("trim(slug) = ?", slug).First(&video).Error
	if err == gorm.ErrRecordNotFound {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch video: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !video.Published {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(video)
}

// CreateVideo inserts a video; the slug derives from the English title.
func CreateVideo(w http.ResponseWriter, r *http.Request) {
	var video Video
	if err := json.NewDecoder(r.Body).Decode(&video); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(video.TitleEN) == "" {
		http.Error(w, "title_en is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(video.EmbedURL) == "" {
		http.Error(w, "embed_url is required", http.StatusBadRequest)
		return
	}

	video.Slug = utils.Slugify(video.TitleEN)
	if video.Slug == "" {
		http.Error(w, "title_en yields an empty slug", http.StatusBadRequest)
		return
	}

	if err := db.DB.WithContext(r.Context()).Create(&video).Error; err != nil {
		http.Error(w, "Failed to create video: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(video)
}

// UpdateVideo applies a partial update by id.
func UpdateVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")

	var video Video
	if err := db.DB.WithContext(r.Context()).First(&video, "id = ?", videoID).Error; err != nil {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Only known columns may change; the slug stays derived from creation.
	allowed := map[string]bool{
		"title_en": true, "title_np": true,
		"description_en": true, "description_np": true,
		"embed_url": true, "published": true,
	}
	for k := range fields {
		if !allowed[k] {
			delete(fields, k)
		}
	}
	if len(fields) == 0 {
		http.Error(w, "No fields to update", http.StatusBadRequest)
		return
	}

	if err := db.DB.WithContext(r.Context()).Model(&video).Updates(fields).Error; err != nil {
		http.Error(w, "Failed to update video: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteVideo removes a video by id.
func DeleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")

	if err := db.DB.WithContext(r.Context()).Delete(&Video{}, "id = ?", videoID).Error; err != nil {
		http.Error(w, "Failed to delete video: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
