package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"promptforge/internal/models"
)

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string

	MongoURI string
	RedisURL string

	JWTSecret     string
	ProvidersFile string

	// Superadmin configuration
	SuperadminUserIDs []string // user IDs with admin access regardless of role claim

	// Default password applied when an admin creates a user without one
	DefaultUserPassword string

	// Per-user generation rate limit (requests per minute)
	GenerateRateLimit int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	// Parse superadmin user IDs (comma-separated)
	superadminEnv := getEnv("SUPERADMIN_USER_IDS", "")
	var superadminUserIDs []string
	if superadminEnv != "" {
		superadminUserIDs = strings.Split(superadminEnv, ",")
		for i := range superadminUserIDs {
			superadminUserIDs[i] = strings.TrimSpace(superadminUserIDs[i])
		}
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENVIRONMENT", "development"),

		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017/promptforge"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		ProvidersFile: getEnv("PROVIDERS_FILE", "providers.json"),

		SuperadminUserIDs: superadminUserIDs,

		DefaultUserPassword: getEnv("DEFAULT_USER_PASSWORD", "promptforge"),

		GenerateRateLimit: getIntEnv("GENERATE_RATE_LIMIT", 30),
	}
}

// LoadProviders loads providers configuration from JSON file
func LoadProviders(filePath string) (*models.ProvidersConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file: %w", err)
	}

	var config models.ProvidersConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse providers JSON: %w", err)
	}

	return &config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
