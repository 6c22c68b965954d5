package videos

import (
	"log"

	"github.com/drparash/site-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "site"); err != nil {
		log.Fatal("Failed to ensure schema site: ", err)
	}

	if err := db.DB.AutoMigrate(&Video{}); err != nil {
		log.Fatal("Failed to auto-migrate video tables: ", err)
	}
}
