package blog

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is one bilingual article. English fields are mandatory, Nepali
// fields default to empty strings on write.
type BlogPost struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Published bool      `gorm:"default:false" json:"published"`

	TitleEN   string `gorm:"not null" json:"title_en"`
	TitleNP   string `json:"title_np"`
	ExcerptEN string `gorm:"not null" json:"excerpt_en"`
	ExcerptNP string `json:"excerpt_np"`
	ContentEN string `gorm:"not null" json:"content_en"`
	ContentNP string `json:"content_np"`

	// SEO metadata
	MetaTitleEN       string `json:"meta_title_en"`
	MetaTitleNP       string `json:"meta_title_np"`
	MetaDescriptionEN string `json:"meta_description_en"`
	MetaDescriptionNP string `json:"meta_description_np"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BlogPost) TableName() string {
	return "site.blog_posts"
}
