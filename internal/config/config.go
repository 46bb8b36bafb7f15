// Package config loads server settings from defaults, an optional YAML file,
// a .env file and SETTLEUP_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DevJWTSecret is the fallback signing key. Fine for local runs only.
const DevJWTSecret = "dev-secret-change-me"

type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

type DatabaseConfig struct {
	// Driver is one of sqlite, postgres or mongo.
	Driver string `mapstructure:"driver"`
	// Path is the SQLite file.
	Path string `mapstructure:"path"`
	// DSN is the PostgreSQL connection URL.
	DSN string `mapstructure:"dsn"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	CodeLength  int           `mapstructure:"code_length"`
	CodeTTL     time.Duration `mapstructure:"code_ttl"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	// PurgeSchedule is the cron spec for deleting expired sign-in codes.
	PurgeSchedule string `mapstructure:"purge_schedule"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// Format is "text" (colored) or "json".
	Format string `mapstructure:"format"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

var defaults = map[string]any{
	"server.port":         8080,
	"server.cors_origin":  "*",
	"database.driver":     DriverSQLite,
	"database.path":       "./data/settleup.db",
	"database.dsn":        "",
	"mongo.uri":           "mongodb://localhost:27017",
	"mongo.database":      "settleup",
	"jwt.secret":          DevJWTSecret,
	"jwt.ttl":             30 * 24 * time.Hour,
	"auth.code_length":    8,
	"auth.code_ttl":       15 * time.Minute,
	"auth.max_attempts":   5,
	"auth.purge_schedule": "@every 1h",
	"log.level":           "info",
	"log.format":          "text",
}

// Load reads configuration. If path is empty, config.yaml in the working
// directory is used when present. A .env file in the working directory is
// loaded into the environment first; variables already set win over it.
//
// Environment overrides use the SETTLEUP_ prefix with dots replaced by
// underscores, e.g. SETTLEUP_SERVER_PORT=9000.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("SETTLEUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for postgres")
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("mongo.uri and mongo.database are required for mongo")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
