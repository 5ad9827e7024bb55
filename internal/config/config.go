package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// Third-party CAPTCHA verification service.
	RecaptchaSecret    string
	RecaptchaVerifyURL string
	RecaptchaTimeout   time.Duration

	// Messaging bot used for best-effort verified notifications.
	BotToken   string
	BotBaseURL string
	BotTimeout time.Duration

	// Flat-file verified-set store.
	StorePath string

	// Sliding-window rate limit applied per caller IP.
	RateLimitMax    int
	RateLimitWindow time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),
		RecaptchaSecret:    getEnv("RECAPTCHA_SECRET", ""),
		RecaptchaVerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
		RecaptchaTimeout:   time.Duration(getEnvInt("RECAPTCHA_TIMEOUT_SECONDS", 10)) * time.Second,
		BotToken:   getEnv("BOT_TOKEN", ""),
		BotBaseURL: getEnv("BOT_API_BASE_URL", "https://api.telegram.org"),
		BotTimeout: time.Duration(getEnvInt("BOT_TIMEOUT_SECONDS", 10)) * time.Second,
		StorePath:       getEnv("STORE_PATH", "./verified.json"),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Validate checks that the secrets without which the relay cannot operate are
// present. Callers are expected to exit on error.
func (c *Config) Validate() error {
	var missing []string
	if c.RecaptchaSecret == "" {
		missing = append(missing, "RECAPTCHA_SECRET")
	}
	if c.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
