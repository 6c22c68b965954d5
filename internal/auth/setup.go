package auth

import (
	"context"
	"log"
	"time"

	"github.com/drparash/site-backend/internal/db"
)

func Init(sessionTTL time.Duration) {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&User{}, &Session{}, &Role{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	manager = NewManager(
		DBCredentials{SessionTTL: sessionTTL},
		DBRoleChecker{},
		DBProvisioner{},
	)
	go manager.Run(context.Background())
}
