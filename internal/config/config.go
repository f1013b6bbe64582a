// Package config loads runtime configuration from environment variables.
// A .env file is honored in development; in production the real environment wins.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the keeper process.
type Config struct {
	Port           string        // loopback status server port
	DatabasePath   string        // local SQLite file
	ServerBaseURL  string        // league server base URL
	TelegramToken  string        // bot token; empty disables the bot
	SyncInterval   time.Duration // outbox retry interval
	SnapshotMaxAge time.Duration // saved games older than this are discarded on load
	Env            string        // "development", "staging", or "production"
}

// Load reads configuration from the environment and returns a populated Config.
// Missing .env is fine; deployment platforms set real environment variables.
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/wgp.db"
	}

	baseURL := os.Getenv("SERVER_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	syncInterval := 30 * time.Second
	if s := os.Getenv("SYNC_INTERVAL_SECONDS"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			syncInterval = time.Duration(secs) * time.Second
		}
	}

	snapshotMaxAge := 24 * time.Hour
	if s := os.Getenv("SNAPSHOT_MAX_AGE_HOURS"); s != "" {
		if hours, err := strconv.Atoi(s); err == nil && hours > 0 {
			snapshotMaxAge = time.Duration(hours) * time.Hour
		}
	}

	return &Config{
		Port:           port,
		DatabasePath:   dbPath,
		ServerBaseURL:  baseURL,
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		SyncInterval:   syncInterval,
		SnapshotMaxAge: snapshotMaxAge,
		Env:            env,
	}
}
