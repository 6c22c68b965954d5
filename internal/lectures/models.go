package lectures

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Lecture is one international speaking engagement.
type Lecture struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Slug string    `gorm:"uniqueIndex;not null" json:"slug"`

	TitleEN string `gorm:"not null" json:"title_en"`
	TitleNP string `json:"title_np"`
	VenueEN string `json:"venue_en"`
	VenueNP string `json:"venue_np"`
	Country string `gorm:"not null" json:"country"`
	City    string `json:"city"`

	EventDate  time.Time      `json:"event_date"`
	Topics     pq.StringArray `gorm:"type:text[]" json:"topics"`
	Highlights pq.StringArray `gorm:"type:text[]" json:"highlights"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images []LectureImage `gorm:"foreignKey:LectureID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Lecture) TableName() string {
	return "site.lectures_abroad"
}

// LectureImage is one photo attached to a lecture, referencing its public
// storage URL.
type LectureImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	LectureID uuid.UUID `gorm:"type:uuid;not null;index" json:"lecture_id"`

	URL          string `gorm:"not null" json:"url"`
	AltEN        string `json:"alt_en"`
	AltNP        string `json:"alt_np"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
}

func (LectureImage) TableName() string {
	return "site.lecture_images"
}
