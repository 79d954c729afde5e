package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Tenant    TenantConfig
	CORS      CORSConfig
	APIKey    APIKeyConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type SessionConfig struct {
	Secret      string
	CookieName  string
	ExpiryHours int
}

// TenantConfig describes how hostnames map to tenant slugs.
type TenantConfig struct {
	// BaseDomain is the apex domain of the platform, e.g. "feedhub.io".
	// Single-level subdomains of it are tenant slugs.
	BaseDomain string
	// PreviewSuffix is the hostname suffix of preview deployments,
	// e.g. ".preview.feedhub.dev".
	PreviewSuffix string
}

type CORSConfig struct {
	// AllowedOrigins are exact origin matches, comma separated in the env.
	AllowedOrigins []string
	// CustomDomainSuffix allows any origin ending with the suffix,
	// e.g. ".customer-domains.feedhub.io".
	CustomDomainSuffix string
}

type APIKeyConfig struct {
	// HMACSecret keys the one-way transform applied to raw API keys
	// before storage and lookup.
	HMACSecret string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (s *SessionConfig) Expiry() time.Duration {
	return time.Duration(s.ExpiryHours) * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "feedhub")
	v.SetDefault("DATABASE_PASSWORD", "feedhub_secret")
	v.SetDefault("DATABASE_NAME", "feedhub")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SESSION_SECRET", "change-me-in-production")
	v.SetDefault("SESSION_COOKIE_NAME", "feedhub_session")
	v.SetDefault("SESSION_EXPIRY_HOURS", 168)
	v.SetDefault("TENANT_BASE_DOMAIN", "")
	v.SetDefault("TENANT_PREVIEW_SUFFIX", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("CORS_CUSTOM_DOMAIN_SUFFIX", "")
	v.SetDefault("API_KEY_HMAC_SECRET", "change-me-in-production")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Session: SessionConfig{
			Secret:      v.GetString("SESSION_SECRET"),
			CookieName:  v.GetString("SESSION_COOKIE_NAME"),
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Tenant: TenantConfig{
			BaseDomain:    v.GetString("TENANT_BASE_DOMAIN"),
			PreviewSuffix: v.GetString("TENANT_PREVIEW_SUFFIX"),
		},
		CORS: CORSConfig{
			AllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			CustomDomainSuffix: v.GetString("CORS_CUSTOM_DOMAIN_SUFFIX"),
		},
		APIKey: APIKeyConfig{
			HMACSecret: v.GetString("API_KEY_HMAC_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
