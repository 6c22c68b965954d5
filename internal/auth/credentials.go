package auth

import (
	"context"
	"errors"
	"time"

	"github.com/drparash/site-backend/internal/db"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned when the email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserInfo is the read-only identity attached to a session.
type UserInfo struct {
	ID    string `json:"user_id"`
	Email string `json:"email"`
}

// CredentialService is the remote auth surface the session manager talks to:
// credential exchange, sign-out, and silent session restore.
type CredentialService interface {
	SignIn(ctx context.Context, email, password string) (sessionID string, user UserInfo, err error)
	SignOut(ctx context.Context, sessionID string) error
	Restore(ctx context.Context, sessionID string) (UserInfo, error)
}

// DBCredentials implements CredentialService on the app_auth tables.
type DBCredentials struct {
	SessionTTL time.Duration
}

func (c DBCredentials) SignIn(ctx context.Context, email, password string) (string, UserInfo, error) {
	var user User
	err := db.DB.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", UserInfo{}, ErrInvalidCredentials
		}
		return "", UserInfo{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", UserInfo{}, ErrInvalidCredentials
	}

	ttl := c.SessionTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}

	sessionID := uuid.New().String()
	session := Session{
		SessionID: sessionID,
		UserID:    user.UserID,
		ExpiresAt: time.Now().Add(ttl),
	}

	// One session per user: replace an existing row if present
	var existing Session
	err = db.DB.WithContext(ctx).First(&existing, "user_id = ?", user.UserID).Error
	switch {
	case err == nil:
		err = db.DB.WithContext(ctx).Model(&existing).Updates(Session{
			SessionID: sessionID,
			ExpiresAt: session.ExpiresAt,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = db.DB.WithContext(ctx).Create(&session).Error
	}
	if err != nil {
		return "", UserInfo{}, err
	}

	return sessionID, UserInfo{ID: user.UserID, Email: user.Email}, nil
}

func (c DBCredentials) SignOut(ctx context.Context, sessionID string) error {
	return db.DB.WithContext(ctx).Delete(&Session{}, "session_id = ?", sessionID).Error
}

func (c DBCredentials) Restore(ctx context.Context, sessionID string) (UserInfo, error) {
	var session Session
	if err := db.DB.WithContext(ctx).First(&session, "session_id = ?", sessionID).Error; err != nil {
		return UserInfo{}, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		return UserInfo{}, errors.New("session expired")
	}

	var user User
	if err := db.DB.WithContext(ctx).First(&user, "user_id = ?", session.UserID).Error; err != nil {
		return UserInfo{}, err
	}
	return UserInfo{ID: user.UserID, Email: user.Email}, nil
}
