// Package config loads the service configuration from environment variables
// and validates it on startup so misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Reports  ReportsConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Redis    RedisConfig
	Jobs     JobsConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"0s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	// RequestTimeout bounds non-import requests; imports use UPLOAD_TIMEOUT.
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. DB_URL is read when
	// DATABASE_URL is unset.
	URL             string        `envconfig:"DATABASE_URL"`
	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"4"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
	// AutoMigrate applies embedded schema migrations on startup.
	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// UploadConfig holds import upload settings.
type UploadConfig struct {
	// Dir receives uploaded files until the import deletes them.
	Dir           string        `envconfig:"UPLOAD_DIR" default:"uploads"`
	MaxFileSize   int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`
	MaxConcurrent int           `envconfig:"UPLOAD_MAX_CONCURRENT" default:"5"`
	MaxWaitTime   time.Duration `envconfig:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
	Timeout       time.Duration `envconfig:"UPLOAD_TIMEOUT" default:"10m"`
}

// ReportsConfig holds failure report settings.
type ReportsConfig struct {
	Dir string `envconfig:"REPORT_DIR" default:"failures"`
}

// RateLimitConfig holds per-IP rate limits, in requests per minute.
type RateLimitConfig struct {
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `envconfig:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
	ImportLimit       int  `envconfig:"RATE_LIMIT_IMPORT" default:"10"`
}

// SecurityConfig holds security-related settings. List values are
// comma-separated.
type SecurityConfig struct {
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
	RequireAPIKey  bool     `envconfig:"REQUIRE_API_KEY" default:"false"`
	APIKeys        []string `envconfig:"API_KEYS"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
	// Development relaxes security headers (no HSTS, no SSL redirect).
	Development bool `envconfig:"SECURITY_DEVELOPMENT" default:"false"`
}

// RedisConfig enables the search cache and async imports when Addr is set.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"5m"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// JobsConfig holds background import worker settings.
type JobsConfig struct {
	Concurrency int           `envconfig:"JOBS_CONCURRENCY" default:"2"`
	Retention   time.Duration `envconfig:"JOBS_RESULT_RETENTION" default:"24h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
