package config

import (
	"os"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// Listing importer settings
	ImportTimeoutSeconds int
	ImportUserAgent      string
}

func Load() *Config {
	// Default MySQL connection string for local development
	defaultDSN := "root:root@tcp(127.0.0.1:3306)/reselling_toolbox?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		ImportTimeoutSeconds: 12,
		ImportUserAgent: getEnv("IMPORT_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126 Safari/537.36"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
