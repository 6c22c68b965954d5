package contacts

import (
	"time"

	"github.com/google/uuid"
)

// Contact is one inquiry submitted through the public site form.
type Contact struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	SubmissionID string    `gorm:"uniqueIndex;not null" json:"-"`

	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null" json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`

	CreatedAt time.Time  `json:"created_at"`
	ViewedAt  *time.Time `json:"viewed_at,omitempty"`
}

func (Contact) TableName() string {
	return "site.contacts"
}
