package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/drparash/site-backend/internal/storage"
	"github.com/drparash/site-backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrValidation marks client-side input problems (missing required English
// fields, unusable title).
var ErrValidation = errors.New("validation failed")

// Store is the remote-table surface the service writes through.
type Store interface {
	List(ctx context.Context) ([]BlogPost, error)
	Create(ctx context.Context, post *BlogPost) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindBySlug matches against trimmed stored slugs and returns (nil, nil)
	// when no row matches.
	FindBySlug(ctx context.Context, slug string) (*BlogPost, error)
}

// File is one upload: a name carrying the original extension plus its bytes.
type File struct {
	Name   string
	Reader io.Reader
}

// Service owns the blog post CRUD lifecycle. It keeps the last successfully
// fetched list so a failed refresh never wipes what callers already saw, and
// it re-fetches after every successful mutation so reads observe a consistent
// post-mutation list.
type Service struct {
	store Store
	media storage.Bucket

	mu     sync.Mutex
	cached []BlogPost
}

func NewService(store Store, media storage.Bucket) *Service {
	return &Service{store: store, media: media}
}

// List returns all posts newest-first. On failure the previous cached list is
// returned alongside the error.
func (s *Service) List(ctx context.Context) ([]BlogPost, error) {
	posts, err := s.store.List(ctx)
	if err != nil {
		s.mu.Lock()
		prior := append([]BlogPost(nil), s.cached...)
		s.mu.Unlock()
		return prior, err
	}

	s.mu.Lock()
	s.cached = posts
	s.mu.Unlock()
	return posts, nil
}

// CreateInput carries the form fields for a new post. English variants are
// required; Nepali variants default to "".
type CreateInput struct {
	TitleEN   string `json:"title_en"`
	TitleNP   string `json:"title_np"`
	ExcerptEN string `json:"excerpt_en"`
	ExcerptNP string `json:"excerpt_np"`
	ContentEN string `json:"content_en"`
	ContentNP string `json:"content_np"`

	MetaTitleEN       string `json:"meta_title_en"`
	MetaTitleNP       string `json:"meta_title_np"`
	MetaDescriptionEN string `json:"meta_description_en"`
	MetaDescriptionNP string `json:"meta_description_np"`

	Published bool `json:"published"`
}

func (in CreateInput) validate() error {
	switch {
	case strings.TrimSpace(in.TitleEN) == "":
		return fmt.Errorf("%w: title_en is required", ErrValidation)
	case strings.TrimSpace(in.ExcerptEN) == "":
		return fmt.Errorf("%w: excerpt_en is required", ErrValidation)
	case strings.TrimSpace(in.ContentEN) == "":
		return fmt.Errorf("%w: content_en is required", ErrValidation)
	}
	return nil
}

// Create validates, derives the slug from the English title, inserts the row
// and refreshes the cached list.
func (s *Service) Create(ctx context.Context, in CreateInput) (*BlogPost, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	slug := utils.Slugify(in.TitleEN)
	if slug == "" {
		return nil, fmt.Errorf("%w: title_en yields an empty slug", ErrValidation)
	}

	post := &BlogPost{
		Slug:              slug,
		Published:         in.Published,
		TitleEN:           in.TitleEN,
		TitleNP:           in.TitleNP,
		ExcerptEN:         in.ExcerptEN,
		ExcerptNP:         in.ExcerptNP,
		ContentEN:         in.ContentEN,
		ContentNP:         in.ContentNP,
		MetaTitleEN:       in.MetaTitleEN,
		MetaTitleNP:       in.MetaTitleNP,
		MetaDescriptionEN: in.MetaDescriptionEN,
		MetaDescriptionNP: in.MetaDescriptionNP,
	}

	if err := s.store.Create(ctx, post); err != nil {
		return nil, err
	}

	s.refresh(ctx)
	return post, nil
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	TitleEN   *string `json:"title_en"`
	TitleNP   *string `json:"title_np"`
	ExcerptEN *string `json:"excerpt_en"`
	ExcerptNP *string `json:"excerpt_np"`
	ContentEN *string `json:"content_en"`
	ContentNP *string `json:"content_np"`

	MetaTitleEN       *string `json:"meta_title_en"`
	MetaTitleNP       *string `json:"meta_title_np"`
	MetaDescriptionEN *string `json:"meta_description_en"`
	MetaDescriptionNP *string `json:"meta_description_np"`

	Published *bool `json:"published"`
}

func (in UpdateInput) fields() map[string]any {
	fields := make(map[string]any)
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	set("title_en", in.TitleEN)
	set("title_np", in.TitleNP)
	set("excerpt_en", in.ExcerptEN)
	set("excerpt_np", in.ExcerptNP)
	set("content_en", in.ContentEN)
	set("content_np", in.ContentNP)
	set("meta_title_en", in.MetaTitleEN)
	set("meta_title_np", in.MetaTitleNP)
	set("meta_description_en", in.MetaDescriptionEN)
	set("meta_description_np", in.MetaDescriptionNP)
	if in.Published != nil {
		fields["published"] = *in.Published
	}
	return fields
}

// Update applies a partial update by primary key, then refreshes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) error {
	fields := in.fields()
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if t, ok := fields["title_en"].(string); ok && strings.TrimSpace(t) == "" {
		return fmt.Errorf("%w: title_en cannot be emptied", ErrValidation)
	}

	if err := s.store.Update(ctx, id, fields); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// Delete removes the row by primary key, then refreshes.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// GetBySlug tolerates whitespace both in the requested slug and in stored
// slugs. A missing row is (nil, nil), not an error.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	return s.store.FindBySlug(ctx, strings.TrimSpace(slug))
}

// UploadImages pushes all files to the media bucket concurrently under names
// namespaced by post id, index and timestamp. The first failure cancels the
// rest and propagates; files already stored are not rolled back.
func (s *Service) UploadImages(ctx context.Context, postID uuid.UUID, files []File) ([]string, error) {
	urls := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			name := objectName(postID.String(), i, f.Name)
			url, err := s.media.Upload(ctx, name, f.Reader)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", f.Name, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// refresh re-fetches the list after a successful mutation. A failed refresh
// keeps the prior cache; the next List call surfaces the fetch error.
func (s *Service) refresh(ctx context.Context) {
	posts, err := s.store.List(ctx)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.cached = posts
	s.mu.Unlock()
}

// objectName builds a collision-free storage name: parent id, file index and
// a timestamp, keeping the original extension.
func objectName(parentID string, index int, original string) string {
	ext := strings.ToLower(path.Ext(original))
	return fmt.Sprintf("%s-%d-%d%s", parentID, index, time.Now().UnixNano(), ext)
}
