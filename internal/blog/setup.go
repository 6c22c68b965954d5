package blog

import (
	"log"

	"github.com/drparash/site-backend/internal/db"
	"github.com/drparash/site-backend/internal/storage"
)

func Init(media storage.Bucket) {
	if err := db.EnsureSchema(db.DB, "site"); err != nil {
		log.Fatal("Failed to ensure schema site: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&BlogPost{}); err != nil {
		log.Fatal("Failed to auto-migrate blog tables: ", err)
	}

	service = NewService(DBStore{}, media)
}
