package blog

import (
	"context"
	"errors"

	"github.com/drparash/site-backend/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DBStore implements Store on the site.blog_posts table.
type DBStore struct{}

func (DBStore) List(ctx context.Context) ([]BlogPost, error) {
	var posts []BlogPost
	err := db.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (DBStore) Create(ctx context.Context, post *BlogPost) error {
	return db.DB.WithContext(ctx).Create(post).Error
}

func (DBStore) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return db.DB.WithContext(ctx).Model(&BlogPost{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (DBStore) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DB.WithContext(ctx).Delete(&BlogPost{}, "id = ?", id).Error
}

// FindBySlug trims stored slugs before comparing: legacy rows carry stray
// whitespace.
func (DBStore) FindBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	var post BlogPost
	err := db.DB.WithContext(ctx).
		Where("trim(slug) = ?", slug).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
