// Package config loads server and CLI settings from .env files, an optional
// YAML file and FORMIFY_ prefixed environment variables.
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

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "FORMIFY"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverJSON     = "json"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Environments.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the resolved configuration.
type Config struct {
	Env    string       `mapstructure:"env"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
	Drafts DraftsConfig `mapstructure:"drafts"`
}

type HTTPConfig struct {
	Addr        string  `mapstructure:"addr"`
	FrontendURL string  `mapstructure:"frontend_url"`
	RateLimit   float64 `mapstructure:"rate_limit"`
	RateBurst   int     `mapstructure:"rate_burst"`
	CORSOrigin  string  `mapstructure:"cors_origin"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StoreConfig struct {
	Driver        string `mapstructure:"driver"`
	Path          string `mapstructure:"path"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
}

type DraftsConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// Development reports whether the server exposes error details.
func (c Config) Development() bool {
	return c.Env == EnvDevelopment
}

// Defaults seeds v with every known key so env vars bind through Unmarshal.
func Defaults(v *viper.Viper) {
	v.SetDefault("env", EnvProduction)
	v.SetDefault("http.addr", ":5000")
	v.SetDefault("http.frontend_url", "http://localhost:3000")
	v.SetDefault("http.rate_limit", 20.0)
	v.SetDefault("http.rate_burst", 40)
	v.SetDefault("http.cors_origin", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.path", "formify-data.json")
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", "formify")
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("drafts.redis_addr", "")
	v.SetDefault("drafts.ttl", 24*time.Hour)
}

// Load resolves the configuration. The env files (".env" when none are given)
// are loaded first and skipped when missing; path names an optional YAML file.
// Variables already set in the environment win over env files.
func Load(path string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown values and missing connection settings.
func (c Config) Validate() error {
	switch c.Env {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("%w: env %q", ErrInvalid, c.Env)
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("%w: http.addr is required", ErrInvalid)
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return fmt.Errorf("%w: rate limit values must not be negative", ErrInvalid)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverJSON:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the json driver", ErrInvalid)
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("%w: store.mongo_uri is required for the mongo driver", ErrInvalid)
		}
		if c.Store.MongoDatabase == "" {
			return fmt.Errorf("%w: store.mongo_database is required for the mongo driver", ErrInvalid)
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("%w: store.postgres_dsn is required for the postgres driver", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalid, c.Store.Driver)
	}

	if c.Drafts.TTL <= 0 {
		return fmt.Errorf("%w: drafts.ttl must be positive", ErrInvalid)
	}
	return nil
}
