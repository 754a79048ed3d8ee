package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Firebase   FirebaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Ledger     LedgerConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type FirebaseConfig struct {
	ProjectID          string
	ServiceAccountPath string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type LedgerConfig struct {
	// CascadePageSize bounds how many transactions one cascade batch deletes.
	CascadePageSize int
	// ListLimit caps transaction listings served to clients.
	ListLimit int
}

// Load reads configuration from the environment, with a .env file as a
// convenience for local development. Missing keys fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8087"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Firebase: FirebaseConfig{
			ProjectID:          env("FIREBASE_PROJECT_ID", ""),
			ServiceAccountPath: env("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "walletly",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Ledger: LedgerConfig{
			CascadePageSize: envInt("CASCADE_PAGE_SIZE", 100),
			ListLimit:       envInt("TRANSACTION_LIST_LIMIT", 30),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
