package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string
	Env       string
	RedisURL  string
	ClientURL string // CORS origin for the browser client

	Rooms       []string
	DefaultRoom string

	// UnreadScope selects who gets counted on a room send: "all" (every
	// other connection, whatever room it is viewing) or "out_of_room".
	UnreadScope string
}

// Load reads configuration from environment variables. In development it
// loads from a .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		RedisURL:    os.Getenv("REDIS_URL"),
		ClientURL:   getEnv("CLIENT_URL", "*"),
		DefaultRoom: getEnv("DEFAULT_ROOM", "general"),
		UnreadScope: getEnv("UNREAD_SCOPE", "all"),
	}

	// Parse room list (comma-separated names)
	for _, name := range strings.Split(getEnv("ROOMS", "general,sports,tech"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			cfg.Rooms = append(cfg.Rooms, name)
		}
	}

	// The default room is always part of the room set
	if !contains(cfg.Rooms, cfg.DefaultRoom) {
		cfg.Rooms = append(cfg.Rooms, cfg.DefaultRoom)
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
