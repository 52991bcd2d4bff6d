package store

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries the environment the CLI needs to reach the store.
type Config struct {
	DSN           string
	TenantID      string
	DefaultRegion string
}

// LoadConfig reads the store configuration from the environment, after
// loading a .env file when one is present (the file is optional; a missing
// one is not an error).
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DSN:           os.Getenv("SPED_DATABASE_URL"),
		TenantID:      os.Getenv("SPED_TENANT_ID"),
		DefaultRegion: os.Getenv("SPED_DEFAULT_REGION"),
	}
	if cfg.DSN == "" {
		return Config{}, fmt.Errorf("SPED_DATABASE_URL is not set")
	}
	if cfg.TenantID == "" {
		return Config{}, fmt.Errorf("SPED_TENANT_ID is not set")
	}
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = "SP"
	}
	return cfg, nil
}
