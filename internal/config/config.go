package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Port          string `env:"PORT" envDefault:"5050"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	UploadsDir    string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5050"`
	ContactSecret string `env:"CONTACT_WEBHOOK_SECRET"`
	ProfilePath   string `env:"SITE_PROFILE_PATH" envDefault:"./site-profile.yaml"`

	// Session lifetime in hours.
	SessionHours int `env:"SESSION_HOURS" envDefault:"6"`
}

// Load reads .env.local (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
