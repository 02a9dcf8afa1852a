package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	StorageBackend string // "memory" or "firestore"
	UseMockAI      bool   // true = use the static AI stand-in even on GCP

	// AdminDomain: principals whose email ends in "@"+AdminDomain are
	// elevated to admin when their profile is materialized.
	AdminDomain string

	// JWTSecret signs session tokens issued by the auth gateway.
	JWTSecret string

	SessionTTL time.Duration
	TrendsTTL  time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

// Load reads all env vars and builds the config. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	modeStr := getEnv("ARTICLES_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("ARTICLES_PORT", "8080"),

		GCPProjectID: getEnv("ARTICLES_GCP_PROJECT", ""),
		GCPLocation:  getEnv("ARTICLES_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("ARTICLES_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend: getEnv("ARTICLES_STORAGE_BACKEND", "memory"),
		UseMockAI:      getBoolEnv("ARTICLES_USE_MOCK_AI", mode == ModeLocal),

		AdminDomain: getEnv("ARTICLES_ADMIN_DOMAIN", "the-articles.net"),
		JWTSecret:   getEnv("ARTICLES_JWT_SECRET", "dev-only-secret"),

		SessionTTL: getDurationEnv("ARTICLES_SESSION_TTL", 24*time.Hour),
		TrendsTTL:  getDurationEnv("ARTICLES_TRENDS_TTL", 30*time.Minute),
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("ARTICLES_GCP_PROJECT must be set in gcp mode")
	}

	return cfg
}
