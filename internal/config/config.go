package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Database
	DatabaseURL string

	// Auth
	SecretKey                string
	JWTAlgorithm             string
	AccessTokenExpireMinutes int

	// First superuser bootstrap
	FirstSuperuserEmail    string
	FirstSuperuserPassword string
	FirstSuperuserFullName string

	// Server
	Port        string
	CORSOrigins []string
	Env         string
}

// Load reads configuration from environment variables, falling back to a
// .env file in the working directory if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	expireMinutes, err := strconv.Atoi(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "1440"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be an integer: %w", err)
	}

	cfg := &Config{
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		SecretKey:                getEnv("SECRET_KEY", ""),
		JWTAlgorithm:             getEnv("JWT_ALGORITHM", "HS256"),
		AccessTokenExpireMinutes: expireMinutes,
		FirstSuperuserEmail:      getEnv("FIRST_SUPERUSER_EMAIL", ""),
		FirstSuperuserPassword:   getEnv("FIRST_SUPERUSER_PASSWORD", ""),
		FirstSuperuserFullName:   getEnv("FIRST_SUPERUSER_FULL_NAME", "System Administrator"),
		Port:                     getEnv("PORT", "8080"),
		CORSOrigins:              strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:                      getEnv("ENV", "development"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.JWTAlgorithm != "HS256" && c.JWTAlgorithm != "HS384" && c.JWTAlgorithm != "HS512" {
		return fmt.Errorf("JWT_ALGORITHM must be one of HS256, HS384, HS512, got %q", c.JWTAlgorithm)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.FirstSuperuserEmail == "" {
		return fmt.Errorf("FIRST_SUPERUSER_EMAIL is required")
	}
	if c.FirstSuperuserPassword == "" {
		return fmt.Errorf("FIRST_SUPERUSER_PASSWORD is required")
	}
	return nil
}

// IsProduction reports whether the app is running with Env == "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
