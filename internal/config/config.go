package config

import (
	"os"
)

type Config struct {
	ServerPort    string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	// Bootstrap administrator created by the seed migration when the
	// users table is empty.
	AdminLogin    string
	AdminPassword string

	// LegacyHeaderAuth keeps the unauthenticated X-User-Id identity
	// header accepted alongside sessions.
	LegacyHeaderAuth bool
}

func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "onboarding"),
		DBPassword:       getEnv("DB_PASSWORD", "onboarding"),
		DBName:           getEnv("DB_NAME", "onboarding_portal"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		SessionSecret:    getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		AdminLogin:       getEnv("ADMIN_LOGIN", ""),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		LegacyHeaderAuth: getBoolEnv("LEGACY_HEADER_AUTH", true),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
