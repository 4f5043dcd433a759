package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every setting the server needs. It is loaded once in main
// and passed explicitly to the components that need it.
type Config struct {
	Env  string
	Port string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ClickhouseURL      string
	ClickhouseDatabase string
	ClickhouseUsername string
	ClickhousePassword string

	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string

	SessionAuthKey       string
	SessionEncryptionKey string
	CookieDomain         string

	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Missing .env is fine in production, everything comes from real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getenv("ENV", "development"),
		Port: getenv("PORT", ":8080"),

		DatabaseURL: os.Getenv("DB_URL"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		ClickhouseURL:      os.Getenv("CLICKHOUSE_URL"),
		ClickhouseDatabase: os.Getenv("CLICKHOUSE_DATABASE"),
		ClickhouseUsername: os.Getenv("CLICKHOUSE_USERNAME"),
		ClickhousePassword: os.Getenv("CLICKHOUSE_PASSWORD"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		OAuthRedirectURL:   getenv("OAUTH_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),

		SessionAuthKey:       os.Getenv("SESSION_AUTH_KEY"),
		SessionEncryptionKey: os.Getenv("SESSION_ENCRYPTION_KEY"),
		CookieDomain:         os.Getenv("COOKIE_DOMAIN"),

		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
	}

	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
