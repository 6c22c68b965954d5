package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

type User struct {
	UserID         string  `gorm:"primaryKey" json:"user_id"`
	Email          string  `gorm:"uniqueIndex;not null" json:"email"`
	Password       string  `json:"password" gorm:"-"`
	HashedPassword string  `json:"-"`
	Session        Session `gorm:"foreignKey:UserID" json:"-"`
}

// Role is one grant row per user per role name ("admin", "viewer", "super_admin").
// A user may hold several.
type Role struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID string `gorm:"not null;index:idx_roles_user_role,unique" json:"user_id"`
	Role   string `gorm:"not null;index:idx_roles_user_role,unique" json:"role"`
}

func (Session) TableName() string { return "app_auth.sessions" }
func (User) TableName() string    { return "app_auth.users" }
func (Role) TableName() string    { return "app_auth.roles" }
