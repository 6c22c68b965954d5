package lectures

import (
	"log"

	"github.com/drparash/site-backend/internal/db"
	"github.com/drparash/site-backend/internal/storage"
)

func Init(photos storage.Bucket) {
	if err := db.EnsureSchema(db.DB, "site"); err != nil {
		log.Fatal("Failed to ensure schema site: ", err)
	}

	if err := db.DB.AutoMigrate(&Lecture{}, &LectureImage{}); err != nil {
		log.Fatal("Failed to auto-migrate lecture tables: ", err)
	}

	service = NewService(DBStore{}, photos)
}
