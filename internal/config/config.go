// Package config provides configuration management for the menu service.
// It loads settings from environment variables (and an optional .env file,
// loaded by the caller) with sensible defaults, and validates them so the
// service starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8000)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FORMAT: console or json (default: console)
//   - LOG_FILE: Optional log file; stdout when empty
//   - ADMIN_TOKEN: Token required by the cache admin endpoints; admin routes are disabled when empty
//   - TLS_CERT_FILE, TLS_KEY_FILE: Serve HTTPS when both are set
//
// Database Configuration:
//   - DATABASE_TYPE: "sqlite" or "postgres" (default: postgres)
//   - DATABASE_PATH: SQLite database file path (default: ./menu_service.db)
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DB, POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_SSL_MODE
//
// Cache Configuration:
//   - CACHE_BACKEND: "redis" or "local" (default: redis)
//   - CACHE_TTL: Lifetime of every cache entry (default: 60s)
//   - CACHE_OP_TIMEOUT: Upper bound on a single cache call (default: 2s)
//   - CACHE_BREAKER_FAILURES: Consecutive backend failures that open the breaker (default: 5)
//   - CACHE_BREAKER_TIMEOUT: How long the breaker stays open (default: 30s)
//
// Redis Configuration:
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 1)
//   - REDIS_POOL_SIZE: Connection pool size (default: 10)
//   - REDIS_MAX_RETRIES: Client-level retries per command (default: 1)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the menu service.
type Config struct {
	// Application settings
	Port        int
	LogLevel    string
	LogFormat   string
	LogFile     string
	AdminToken  string
	TLSCertFile string
	TLSKeyFile  string

	// Database configuration
	DatabaseType     string
	DatabasePath     string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresSSLMode  string

	// Cache configuration
	CacheBackend         string
	CacheTTL             time.Duration
	CacheOpTimeout       time.Duration
	CacheBreakerFailures int
	CacheBreakerTimeout  time.Duration

	// Redis configuration
	RedisAddress    string
	RedisPassword   string
	RedisDB         int
	RedisPoolSize   int
	RedisMaxRetries int
}

var defaults = map[string]interface{}{
	"port":                   8000,
	"log_level":              "info",
	"log_format":             "console",
	"log_file":               "",
	"admin_token":            "",
	"tls_cert_file":          "",
	"tls_key_file":           "",
	"database_type":          "postgres",
	"database_path":          "./menu_service.db",
	"postgres_host":          "localhost",
	"postgres_port":          5432,
	"postgres_db":            "menu",
	"postgres_user":          "postgres",
	"postgres_password":      "",
	"postgres_ssl_mode":      "disable",
	"cache_backend":          "redis",
	"cache_ttl":              "60s",
	"cache_op_timeout":       "2s",
	"cache_breaker_failures": 5,
	"cache_breaker_timeout":  "30s",
	"redis_address":          "localhost:6379",
	"redis_password":         "",
	"redis_db":               1,
	"redis_pool_size":        10,
	"redis_max_retries":      1,
}

// NewViper returns a viper instance with every key defaulted and bound to
// its upper-cased environment variable. Callers may bind command-line flags
// onto it before calling LoadFrom.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// Load reads the configuration from the environment.
//
// This function does not validate the configuration; call Validate() on the
// returned Config before use.
func Load() *Config {
	return LoadFrom(NewViper())
}

// LoadFrom builds a Config from an already prepared viper instance.
func LoadFrom(v *viper.Viper) *Config {
	return &Config{
		Port:        v.GetInt("port"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogFile:     v.GetString("log_file"),
		AdminToken:  v.GetString("admin_token"),
		TLSCertFile: v.GetString("tls_cert_file"),
		TLSKeyFile:  v.GetString("tls_key_file"),

		DatabaseType:     v.GetString("database_type"),
		DatabasePath:     v.GetString("database_path"),
		PostgresHost:     v.GetString("postgres_host"),
		PostgresPort:     v.GetInt("postgres_port"),
		PostgresDB:       v.GetString("postgres_db"),
		PostgresUser:     v.GetString("postgres_user"),
		PostgresPassword: v.GetString("postgres_password"),
		PostgresSSLMode:  v.GetString("postgres_ssl_mode"),

		CacheBackend:         v.GetString("cache_backend"),
		CacheTTL:             v.GetDuration("cache_ttl"),
		CacheOpTimeout:       v.GetDuration("cache_op_timeout"),
		CacheBreakerFailures: v.GetInt("cache_breaker_failures"),
		CacheBreakerTimeout:  v.GetDuration("cache_breaker_timeout"),

		RedisAddress:    v.GetString("redis_address"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         v.GetInt("redis_db"),
		RedisPoolSize:   v.GetInt("redis_pool_size"),
		RedisMaxRetries: v.GetInt("redis_max_retries"),
	}
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	switch c.DatabaseType {
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required when using SQLite")
		}
	case "postgres":
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required when using PostgreSQL")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required when using PostgreSQL")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required when using PostgreSQL")
		}
		if c.PostgresPort < 1 || c.PostgresPort > 65535 {
			return fmt.Errorf("POSTGRES_PORT must be a valid port number")
		}
		switch c.PostgresSSLMode {
		case "", "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("POSTGRES_SSL_MODE must be one of disable, allow, prefer, require, verify-ca, verify-full")
		}
	default:
		return fmt.Errorf("DATABASE_TYPE must be 'sqlite' or 'postgres'")
	}

	switch c.CacheBackend {
	case "local":
	case "redis":
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when CACHE_BACKEND is redis")
		}
		if c.RedisDB < 0 || c.RedisDB > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if c.RedisPoolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
		if c.RedisMaxRetries < 0 {
			return fmt.Errorf("REDIS_MAX_RETRIES must not be negative")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be 'redis' or 'local'")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be a positive duration (e.g., '60s')")
	}
	if c.CacheOpTimeout <= 0 {
		return fmt.Errorf("CACHE_OP_TIMEOUT must be a positive duration (e.g., '2s')")
	}
	if c.CacheBreakerFailures < 1 {
		return fmt.Errorf("CACHE_BREAKER_FAILURES must be a positive number")
	}
	if c.CacheBreakerTimeout <= 0 {
		return fmt.Errorf("CACHE_BREAKER_TIMEOUT must be a positive duration")
	}

	return nil
}

// PostgresDSN returns the connection URL for the configured PostgreSQL database.
// An empty SSL mode leaves the driver default in place.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDB,
	}
	if c.PostgresSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.PostgresSSLMode}}.Encode()
	}
	return u.String()
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
