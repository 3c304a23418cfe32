package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the terminal process configuration, loaded from the
// environment (optionally seeded from a .env file).
type Config struct {
	App struct {
		Addr string
		Env  string
	}
	Remote struct {
		BaseURL string
		Timeout time.Duration
	}
	Seating struct {
		LayoutPath   string // optional JSON seed; built-in layout when empty
		SyncInterval time.Duration
	}
	Auth struct {
		// bcrypt hash of the terminal-local manager override PIN;
		// override falls back to the remote sign-in when empty.
		OverridePINHash string
	}
}

// Load reads the configuration from the environment. A missing .env
// file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.App.Addr = getString("TERMINAL_ADDR", ":7070")
	cfg.App.Env = getString("TERMINAL_ENV", "development")
	cfg.Remote.BaseURL = getString("REMOTE_API_URL", "http://localhost:8080")
	cfg.Remote.Timeout = getDuration("REMOTE_API_TIMEOUT", 5*time.Second)
	cfg.Seating.LayoutPath = getString("SEATING_LAYOUT_PATH", "")
	cfg.Seating.SyncInterval = getDuration("TABLE_SYNC_INTERVAL", 30*time.Second)
	cfg.Auth.OverridePINHash = getString("MANAGER_OVERRIDE_PIN_HASH", "")

	return cfg, nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
