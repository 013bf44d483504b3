package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string

	// External training service
	TrainerURL     string
	TrainerTimeout time.Duration

	// Pipeline refresh cadence while jobs are active
	PollInterval time.Duration

	// Model registry
	ArtifactBackend string // "fs" or "s3"
	ArtifactRoot    string
	ArtifactBucket  string
	ArtifactPrefix  string
	SweepSchedule   string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", "postgres://localhost/trainloop?sslmode=disable"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		TrainerURL:      getEnv("TRAINER_URL", "http://localhost:8000"),
		TrainerTimeout:  getDuration("TRAINER_TIMEOUT", 30*time.Second),
		PollInterval:    getDuration("POLL_INTERVAL", 5*time.Second),
		ArtifactBackend: getEnv("ARTIFACT_BACKEND", "fs"),
		ArtifactRoot:    getEnv("ARTIFACT_ROOT", "./models"),
		ArtifactBucket:  getEnv("ARTIFACT_BUCKET", ""),
		ArtifactPrefix:  getEnv("ARTIFACT_PREFIX", "models"),
		SweepSchedule:   getEnv("SWEEP_SCHEDULE", "@daily"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
