package contacts

import (
	"log"

	"github.com/drparash/site-backend/internal/db"
)

// webhookSecret signs inbound form submissions; empty means the public
// intake endpoint refuses everything.
var webhookSecret string

func Init(secret string) {
	webhookSecret = secret

	if err := db.EnsureSchema(db.DB, "site"); err != nil {
		log.Fatal("Failed to ensure schema site: ", err)
	}

	if err := db.DB.AutoMigrate(&Contact{}); err != nil {
		log.Fatal("Failed to auto-migrate contact tables: ", err)
	}
}
