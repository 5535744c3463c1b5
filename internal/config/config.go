package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process settings read from the environment.
type Config struct {
	DatabaseURL    string
	ServerPort     string
	AllowedOrigins string
	LogLevel       string
	LogFormat      string // "json" or "text"
	OTLPEndpoint   string // empty disables trace export
	ServiceName    string
	AutoMigrate    bool // apply embedded migrations at server start
}

// Load reads an optional .env file and then the environment.
// DATABASE_URL is the only required setting.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:    getEnv("SERVICE_NAME", "smallbiz-ledger"),
		AutoMigrate:    getEnv("AUTO_MIGRATE", "false") == "true",
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
