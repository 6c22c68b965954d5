package lectures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/drparash/site-backend/internal/storage"
	"github.com/drparash/site-backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrValidation marks bad form input.
var ErrValidation = errors.New("validation failed")

// Store is the remote-table surface for lectures and their image rows.
type Store interface {
	List(ctx context.Context) ([]Lecture, error)
	Create(ctx context.Context, lecture *Lecture) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindBySlug(ctx context.Context, slug string) (*Lecture, error)
	ImagesFor(ctx context.Context, lectureID uuid.UUID) ([]LectureImage, error)
	CreateImage(ctx context.Context, image *LectureImage) error
}

// File is one image upload plus its bilingual alt text.
type File struct {
	Name   string
	AltEN  string
	AltNP  string
	Reader io.Reader
}

// Service owns the lecture CRUD lifecycle, including photo uploads to the
// lecture-images bucket. Same cache and refresh-after-mutate policy as the
// blog service.
type Service struct {
	store  Store
	photos storage.Bucket

	mu     sync.Mutex
	cached []Lecture
}

func NewService(store Store, photos storage.Bucket) *Service {
	return &Service{store: store, photos: photos}
}

// List returns all lectures with their images, newest first. On failure the
// prior cached list rides along with the error.
func (s *Service) List(ctx context.Context) ([]Lecture, error) {
	lectures, err := s.store.List(ctx)
	if err != nil {
		s.mu.Lock()
		prior := append([]Lecture(nil), s.cached...)
		s.mu.Unlock()
		return prior, err
	}

	s.mu.Lock()
	s.cached = lectures
	s.mu.Unlock()
	return lectures, nil
}

// CreateInput carries the lecture form. English title and country are
// required; everything Nepali defaults to "".
type CreateInput struct {
	TitleEN    string    `json:"title_en"`
	TitleNP    string    `json:"title_np"`
	VenueEN    string    `json:"venue_en"`
	VenueNP    string    `json:"venue_np"`
	Country    string    `json:"country"`
	City       string    `json:"city"`
	EventDate  time.Time `json:"event_date"`
	Topics     []string  `json:"topics"`
	Highlights []string  `json:"highlights"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Lecture, error) {
	if strings.TrimSpace(in.TitleEN) == "" {
		return nil, fmt.Errorf("%w: title_en is required", ErrValidation)
	}
	if strings.TrimSpace(in.Country) == "" {
		return nil, fmt.Errorf("%w: country is required", ErrValidation)
	}

	slug := utils.Slugify(in.TitleEN)
	if slug == "" {
		return nil, fmt.Errorf("%w: title_en yields an empty slug", ErrValidation)
	}

	lecture := &Lecture{
		Slug:       slug,
		TitleEN:    in.TitleEN,
		TitleNP:    in.TitleNP,
		VenueEN:    in.VenueEN,
		VenueNP:    in.VenueNP,
		Country:    in.Country,
		City:       in.City,
		EventDate:  in.EventDate,
		Topics:     in.Topics,
		Highlights: in.Highlights,
	}

	if err := s.store.Create(ctx, lecture); err != nil {
		return nil, err
	}

	s.refresh(ctx)
	return lecture, nil
}

// Update applies a partial update from a column->value map; unknown columns
// are dropped at the handler.
func (s *Service) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	if err := s.store.Update(ctx, id, fields); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// Delete removes the lecture row (image rows cascade), then best-effort
// removes the stored photo objects. Storage cleanup is not transactional with
// the database delete: a failed removal is logged, never propagated.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	images, err := s.store.ImagesFor(ctx, id)
	if err != nil {
		log.Println("lectures: listing images before delete failed:", err)
		images = nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	for _, img := range images {
		name := path.Base(img.URL)
		if err := s.photos.Remove(ctx, name); err != nil {
			log.Printf("lectures: removing stored object %s failed: %v", name, err)
		}
	}

	s.refresh(ctx)
	return nil
}

// GetBySlug tolerates whitespace in stored slugs; a miss is (nil, nil).
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Lecture, error) {
	return s.store.FindBySlug(ctx, strings.TrimSpace(slug))
}

// UploadImages uploads all files concurrently and inserts one image row per
// stored object. The first failure cancels the remaining uploads and
// propagates; objects and rows already written stay put (orphans are an
// accepted cost, and they are logged, not silent).
func (s *Service) UploadImages(ctx context.Context, lectureID uuid.UUID, files []File) ([]LectureImage, error) {
	results := make([]*LectureImage, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			name := objectName(lectureID.String(), i, f.Name)
			url, err := s.photos.Upload(ctx, name, f.Reader)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", f.Name, err)
			}

			image := &LectureImage{
				LectureID:    lectureID,
				URL:          url,
				AltEN:        f.AltEN,
				AltNP:        f.AltNP,
				DisplayOrder: i,
			}
			if err := s.store.CreateImage(ctx, image); err != nil {
				return fmt.Errorf("recording %s: %w", f.Name, err)
			}
			results[i] = image
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Println("lectures: image upload batch failed:", err)
		return nil, err
	}

	images := make([]LectureImage, 0, len(results))
	for _, img := range results {
		images = append(images, *img)
	}

	s.refresh(ctx)
	return images, nil
}

func (s *Service) refresh(ctx context.Context) {
	lectures, err := s.store.List(ctx)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.cached = lectures
	s.mu.Unlock()
}

func objectName(parentID string, index int, original string) string {
	ext := strings.ToLower(path.Ext(original))
	return fmt.Sprintf("%s-%d-%d%s", parentID, index, time.Now().UnixNano(), ext)
}
