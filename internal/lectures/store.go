package lectures

import (
	"context"
	"errors"

	"github.com/drparash/site-backend/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DBStore implements Store on site.lectures_abroad and site.lecture_images.
type DBStore struct{}

func (DBStore) List(ctx context.Context) ([]Lecture, error) {
	var lectures []Lecture
	err := db.DB.WithContext(ctx).
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("display_order ASC")
		}).
		Order("created_at DESC").
		Find(&lectures).Error
	return lectures, err
}

func (DBStore) Create(ctx context.Context, lecture *Lecture) error {
	return db.DB.WithContext(ctx).Create(lecture).Error
}

func (DBStore) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return db.DB.WithContext(ctx).Model(&Lecture{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (DBStore) Delete(ctx context.Context, id uuid.UUID) error {
	// Image rows cascade with the parent
	return db.DB.WithContext(ctx).Delete(&Lecture{}, "id = ?", id).Error
}

func (DBStore) FindBySlug(ctx context.Context, slug string) (*Lecture, error) {
	var lecture Lecture
	err := db.DB.WithContext(ctx).
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("display_order ASC")
		}).
		Where("trim(slug) = ?", slug).
		First(&lecture).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (DBStore) ImagesFor(ctx context.Context, lectureID uuid.UUID) ([]LectureImage, error) {
	var images []LectureImage
	err := db.DB.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Order("display_order ASC").
		Find(&images).Error
	return images, err
}

func (DBStore) CreateImage(ctx context.Context, image *LectureImage) error {
	return db.DB.WithContext(ctx).Create(image).Error
}
