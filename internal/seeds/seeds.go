package seeds

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/drparash/site-backend/internal/auth"
	"github.com/drparash/site-backend/internal/db"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll creates the development back-office accounts and their role grants.
// Existing accounts are left untouched, so it is safe to re-run.
func SeedAll() error {
	accounts := []struct {
		emailEnv    string
		passwordEnv string
		fallback    string
		roles       []string
	}{
		{"SEED_ADMIN_EMAIL", "SEED_ADMIN_PASSWORD", "admin@drparash.com.np", []string{"admin", "super_admin"}},
		{"SEED_VIEWER_EMAIL", "SEED_VIEWER_PASSWORD", "viewer@drparash.com.np", []string{"viewer"}},
	}

	for _, account := range accounts {
		email := os.Getenv(account.emailEnv)
		if email == "" {
			email = account.fallback
		}
		password := os.Getenv(account.passwordEnv)
		if password == "" {
			password = "changeme"
		}

		if err := seedUser(email, password, account.roles); err != nil {
			return fmt.Errorf("seeding %s: %w", email, err)
		}
	}

	return nil
}

func seedUser(email, password string, roles []string) error {
	var existing auth.User
	err := db.DB.First(&existing, "email = ?", email).Error
	if err == nil {
		log.Printf("user %s already exists, skipping", email)
		return grantRoles(existing.UserID, roles)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := auth.User{
		UserID:         uuid.New().String(),
		Email:          email,
		HashedPassword: string(hashed),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return err
	}

	log.Printf("created user %s", email)
	return grantRoles(user.UserID, roles)
}

func grantRoles(userID string, roles []string) error {
	for _, role := range roles {
		var count int64
		if err := db.DB.Model(&auth.Role{}).
			Where("user_id = ? AND role = ?", userID, role).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.DB.Create(&auth.Role{UserID: userID, Role: role}).Error; err != nil {
			return err
		}
		log.Printf("granted %s to %s", role, userID)
	}
	return nil
}
