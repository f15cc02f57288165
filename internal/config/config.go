package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by the loader.
const (
	EnvConfigPath    = "CONFIG_PATH"
	EnvDBConnection  = "DB_CONNECTION"
	EnvAdminAPIKey   = "ADMIN_API_KEY"
	EnvJWTSecret     = "JWT_SECRET"
	EnvJWTExpiry     = "JWT_EXPIRY"
	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPassword = "ADMIN_PASSWORD"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// LoadDatabaseDSN reads the database DSN from the YAML config file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	// fileConfig maps the YAML fields needed for DSN resolution.
	type fileConfig struct {
		DatabaseDSN string `yaml:"database-dsn"`
		Database    struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return "", fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDatabaseDSN
}

// AuthConfig holds credential settings for the auth gate.
type AuthConfig struct {
	AdminAPIKey string        `yaml:"admin-api-key"` // Shared admin API key.
	JWTSecret   string        `yaml:"jwt-secret"`    // JWT signing secret.
	JWTExpiry   time.Duration `yaml:"jwt-expiry"`    // Issued token lifetime.
}

// defaultJWTExpiry is used when the config omits or invalidates JWT expiry.
const defaultJWTExpiry = 30 * 24 * time.Hour

// LoadAuthConfig loads auth settings from the YAML config file with env overrides.
func LoadAuthConfig(configPath string) (AuthConfig, error) {
	// fileConfig maps the YAML fields needed for auth settings.
	type fileConfig struct {
		Auth AuthConfig `yaml:"auth"`
	}

	result := AuthConfig{JWTExpiry: defaultJWTExpiry}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.Auth
		}
	}

	if key := strings.TrimSpace(os.Getenv(EnvAdminAPIKey)); key != "" {
		result.AdminAPIKey = key
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		result.JWTSecret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			result.JWTExpiry = expiry
		}
	}

	if result.JWTExpiry <= 0 {
		result.JWTExpiry = defaultJWTExpiry
	}
	return result, nil
}

// RateLimitConfig holds the rate limiter defaults from the config file.
// Values stored in the settings table override these at runtime.
type RateLimitConfig struct {
	MaxRequests   int           // Allowed requests per window.
	Window        time.Duration // Window length.
	RedisEnabled  bool          // Whether the Redis backend is preferred.
	RedisAddr     string        // Redis address.
	RedisPassword string        // Redis password.
	RedisDB       int           // Redis database index.
	RedisPrefix   string        // Redis key prefix.
}

// Rate limiter defaults matching the documented contract.
const (
	DefaultRateLimitMaxRequests = 100
	DefaultRateLimitWindow      = 15 * time.Minute
)

// LoadRateLimitConfig loads rate limiter defaults from the YAML config file.
func LoadRateLimitConfig(configPath string) (RateLimitConfig, error) {
	// fileConfig maps the YAML fields needed for rate limit settings.
	type fileConfig struct {
		RateLimit struct {
			MaxRequests   int    `yaml:"max-requests"`
			WindowSeconds int    `yaml:"window-seconds"`
			RedisEnabled  bool   `yaml:"redis-enabled"`
			RedisAddr     string `yaml:"redis-addr"`
			RedisPassword string `yaml:"redis-password"`
			RedisDB       int    `yaml:"redis-db"`
			RedisPrefix   string `yaml:"redis-prefix"`
		} `yaml:"rate-limit"`
	}

	result := RateLimitConfig{
		MaxRequests: DefaultRateLimitMaxRequests,
		Window:      DefaultRateLimitWindow,
	}

	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		return result, nil
	}
	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return result, fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if cfg.RateLimit.MaxRequests > 0 {
		result.MaxRequests = cfg.RateLimit.MaxRequests
	}
	if cfg.RateLimit.WindowSeconds > 0 {
		result.Window = time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	}
	result.RedisEnabled = cfg.RateLimit.RedisEnabled
	result.RedisAddr = strings.TrimSpace(cfg.RateLimit.RedisAddr)
	result.RedisPassword = cfg.RateLimit.RedisPassword
	if cfg.RateLimit.RedisDB > 0 {
		result.RedisDB = cfg.RateLimit.RedisDB
	}
	result.RedisPrefix = strings.TrimSpace(cfg.RateLimit.RedisPrefix)
	return result, nil
}

// SeedAdmin describes the admin account ensured by migrations.
type SeedAdmin struct {
	Email    string
	Name     string
	Password string
}

// Seed account defaults, overridable through the environment.
const (
	DefaultAdminEmail    = "admin@mobiledorms.com"
	DefaultAdminName     = "Admin User"
	DefaultAdminPassword = "admin123"
)

// LoadSeedAdmin resolves the seeded admin account from the environment.
func LoadSeedAdmin() SeedAdmin {
	admin := SeedAdmin{
		Email:    DefaultAdminEmail,
		Name:     DefaultAdminName,
		Password: DefaultAdminPassword,
	}
	if email := strings.TrimSpace(os.Getenv(EnvAdminEmail)); email != "" {
		admin.Email = email
	}
	if password := os.Getenv(EnvAdminPassword); password != "" {
		admin.Password = password
	}
	return admin
}
