package config

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/rentalworks/gearcheck/internal/utils"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Addr          string
	SQLitePath    string // empty means in-memory store, no persistence
	MigrationsDir string // empty means embedded migrations
	StaticDir     string
	Commit        string
	BuildTime     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, falling back to system env vars")
	}

	return &Config{
		Addr:          utils.SafeEnv("GEARCHECK_ADDR", ":8080"),
		SQLitePath:    utils.SafeEnv("GEARCHECK_SQLITE_PATH", ""),
		MigrationsDir: utils.SafeEnv("GEARCHECK_MIGRATIONS_DIR", ""),
		StaticDir:     utils.SafeEnv("GEARCHECK_STATIC_DIR", ""),
		Commit:        utils.SafeEnv("GEARCHECK_COMMIT", ""),
		BuildTime:     utils.SafeEnv("GEARCHECK_BUILD_TIME", ""),
	}
}
