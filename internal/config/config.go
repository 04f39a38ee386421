package config

import (
	"errors"
	"os"
	"strings"
)

const (
	defaultEnv      = "dev"
	defaultDriver   = DriverSQLite
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultLogLevel = "INFO"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrMissingSessionSecret is returned by Validate outside development when no
// session signing secret is configured.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET must be set outside development")

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	Port          string
	LogLevel      string
}

// Load reads .env (if present) and the environment and returns a populated Config.
func Load() Config {
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:           os.Getenv("APP_ENV"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBDriver:      strings.ToLower(os.Getenv("DB_DRIVER")),
		DBPath:        os.Getenv("DB_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Port:          os.Getenv("PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = defaultDriver
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	return cfg
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development" || c.Env == "local"
}

// DSN returns the data source for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Warnings lists settings that are missing but not fatal. Callers log them
// once logging is configured.
func (c Config) Warnings() []string {
	var out []string
	if c.AdminEmail == "" {
		out = append(out, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		out = append(out, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		out = append(out, "SESSION_SECRET is not set")
	}
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		out = append(out, "DB_DRIVER "+c.DBDriver+" is not supported")
	}
	if c.DBDriver == DriverPostgres && c.DatabaseURL == "" {
		out = append(out, "DATABASE_URL is not set")
	}
	return out
}

// Validate reports settings that must stop startup.
func (c Config) Validate() error {
	if !c.IsDev() && c.SessionSecret == "" {
		return ErrMissingSessionSecret
	}
	return nil
}
