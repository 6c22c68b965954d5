package lectures

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// service is wired in Init.
var service *Service

// ListLectures returns every lecture with its images, newest first.
func ListLectures(w http.ResponseWriter, r *http.Request) {
	lectures, err := service.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch lectures: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lectures)
}

// GetLectureBySlug returns a single lecture looked up by slug.
func GetLectureBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	lecture, err := service.GetBySlug(r.Context(), slug)
	if err != nil {
		http.Error(w, "Failed to fetch lecture: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if lecture == nil {
		http.Error(w, "Lecture not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lecture)
}

// CreateLecture inserts a lecture from the admin form.
func CreateLecture(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lecture, err := service.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create lecture: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lecture)
}

// lectureColumns is the partial-update whitelist.
var lectureColumns = map[string]bool{
	"title_en": true, "title_np": true,
	"venue_en": true, "venue_np": true,
	"country": true, "city": true,
	"event_date": true, "topics": true, "highlights": true,
}

// UpdateLecture applies a partial update by id.
func UpdateLecture(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "lecture_id"))
	if err != nil {
		http.Error(w, "Invalid lecture id", http.StatusBadRequest)
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for k := range fields {
		if !lectureColumns[k] {
			delete(fields, k)
		}
	}

	if err := service.Update(r.Context(), id, fields); err != nil {
		if errors.Is(err, ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to update lecture: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteLecture removes a lecture and best-effort cleans up its stored photos.
func DeleteLecture(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "lecture_id"))
	if err != nil {
		http.Error(w, "Invalid lecture id", http.StatusBadRequest)
		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete lecture: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// UploadLectureImages accepts a multipart form ("images" files with parallel
// optional "alt_en"/"alt_np" values) and attaches the photos to the lecture.
func UploadLectureImages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "lecture_id"))
	if err != nil {
		http.Error(w, "Invalid lecture id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32 MiB
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		http.Error(w, "At least one image is required", http.StatusBadRequest)
		return
	}

	altsEN := r.MultipartForm.Value["alt_en"]
	altsNP := r.MultipartForm.Value["alt_np"]
	alt := func(values []string, i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}

	var files []File
	for i, h := range headers {
		f, err := h.Open()
		if err != nil {
			http.Error(w, "Failed to read upload", http.StatusBadRequest)
			return
		}
		defer f.Close()
		files = append(files, File{
			Name:   h.Filename,
			AltEN:  alt(altsEN, i),
			AltNP:  alt(altsNP, i),
			Reader: f,
		})
	}

	images, err := service.UploadImages(r.Context(), id, files)
	if err != nil {
		http.Error(w, "Failed to upload images: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(images)
}
