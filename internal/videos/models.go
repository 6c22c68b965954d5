package videos

import (
	"time"

	"github.com/google/uuid"
)

// Video is one embedded talk or interview, bilingual like the rest of the
// site content.
type Video struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	EmbedURL  string    `gorm:"not null" json:"embed_url"`
	Published bool      `gorm:"default:false" json:"published"`

	TitleEN       string `gorm:"not null" json:"title_en"`
	TitleNP       string `json:"title_np"`
	DescriptionEN string `json:"description_en"`
	DescriptionNP string `json:"description_np"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Video) TableName() string {
	return "site.videos"
}
