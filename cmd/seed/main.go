package main

import (
	"log"
	"time"

	"github.com/drparash/site-backend/internal/auth"
	"github.com/drparash/site-backend/internal/db"
	"github.com/drparash/site-backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	// Migrations run through the same module Init as the server
	auth.Init(6 * time.Hour)

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
