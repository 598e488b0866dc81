// Package config loads environment-driven configuration for the backend.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// TokenExpiry is the lifetime of issued bearer tokens and sessions.
	TokenExpiry = 7 * 24 * time.Hour
	// ResetTokenExpiry is the lifetime of password-reset tokens.
	ResetTokenExpiry = 30 * time.Minute
	// BcryptCost is the fixed cost factor for password hashing.
	BcryptCost = 12
	// MaxPortAttempts bounds the automatic port increment on bind conflicts.
	MaxPortAttempts = 10
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Auth     AuthConfig
	Email    EmailConfig
	Telegram TelegramConfig
	Chat     ChatConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// DSN overrides the individual fields when set.
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServerConfig struct {
	Port    int
	BaseURL string
}

type AuthConfig struct {
	JWTSecret string
	// Google OAuth credentials are recognized for the frontend's federated
	// sign-in flow; the API itself only consumes the resulting session.
	GoogleClientID     string
	GoogleClientSecret string
}

type EmailConfig struct {
	AWSRegion   string
	FromAddress string
}

type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

type ChatConfig struct {
	// Backplane selects the cross-node fan-out adapter. Empty means
	// in-process delivery only (single-node deployment).
	Backplane string
}

// Load reads configuration from the environment, honoring a .env file if
// present. JWT_SECRET is required; everything else has a default or is
// optional.
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "civicvoice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			DSN:      getEnv("DATABASE_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Server: ServerConfig{
			Port:    getEnvAsInt("PORT", 8080),
			BaseURL: getEnv("APP_BASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:          jwtSecret,
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		},
		Email: EmailConfig{
			AWSRegion:   getEnv("AWS_REGION", ""),
			FromAddress: getEnv("SES_FROM_ADDRESS", ""),
		},
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminChatID: getEnvAsInt64("TELEGRAM_ADMIN_CHAT_ID", 0),
		},
		Chat: ChatConfig{
			Backplane: getEnv("CHAT_BACKPLANE", ""),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	return cfg, nil
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) BuildDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
