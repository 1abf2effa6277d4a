package config

import (
	"log/slog"
	"os"
)

const defaultHashSecret = "dev-secret-change-in-production"

type Config struct {
	HTTPPort   string
	HTTPSPort  string
	Env        string
	HashSecret string
	DataDir    string

	// TLSCertFile and TLSKeyFile enable the HTTPS listener when both are set.
	TLSCertFile string
	TLSKeyFile  string
}

func Load() Config {
	cfg := Config{
		HTTPPort:    getEnv("HTTP_PORT", "3000"),
		HTTPSPort:   getEnv("HTTPS_PORT", "3001"),
		Env:         getEnv("ENV", "development"),
		HashSecret:  getEnv("HASH_SECRET", defaultHashSecret),
		DataDir:     getEnv("DATA_DIR", ".data"),
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
	}

	if cfg.Env == "production" && cfg.HashSecret == defaultHashSecret {
		slog.Error("HASH_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
