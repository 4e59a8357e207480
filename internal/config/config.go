// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/baxromumarov/job-extractor/internal/httpx"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Scrape   ScrapeConfig   `mapstructure:"scrape"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Learning LearningConfig `mapstructure:"learning"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port" validate:"min=1,max=65535"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type ScrapeConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRedirects  int           `mapstructure:"max_redirects" validate:"min=0,max=10"`
	RespectRobots bool          `mapstructure:"respect_robots"`
	RatePerSecond float64       `mapstructure:"rate_per_second" validate:"min=0"`
	Burst         int           `mapstructure:"burst" validate:"min=1"`
}

type LearningConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=file postgres memory"`
	Path    string `mapstructure:"path"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Load builds a Config from an optional file and JOBEXTRACT_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBEXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("scrape.timeout", 15*time.Second)
	v.SetDefault("fetch.timeout", httpx.DefaultTimeout)
	v.SetDefault("fetch.max_redirects", httpx.DefaultMaxRedirects)
	v.SetDefault("fetch.respect_robots", false)
	v.SetDefault("fetch.rate_per_second", 1.0)
	v.SetDefault("fetch.burst", 2)
	v.SetDefault("learning.backend", BackendFile)
	v.SetDefault("learning.path", "data/learning.json")
	v.SetDefault("database.url", "")
	v.SetDefault("log.level", "info")
}

var validate = validator.New()

// Validate enforces field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Learning.Backend == BackendPostgres && c.Database.URL == "" {
		return fmt.Errorf("database.url must be set when learning.backend is postgres")
	}
	if c.Learning.Backend == BackendFile && c.Learning.Path == "" {
		return fmt.Errorf("learning.path must be set when learning.backend is file")
	}
	if c.Fetch.Timeout > c.Scrape.Timeout {
		return fmt.Errorf("fetch.timeout (%s) must not exceed scrape.timeout (%s)", c.Fetch.Timeout, c.Scrape.Timeout)
	}
	return nil
}

// FetcherConfig converts the fetch section for httpx.NewFetcher.
func (c Config) FetcherConfig() httpx.Config {
	return httpx.Config{
		Timeout:       c.Fetch.Timeout,
		MaxRedirects:  c.Fetch.MaxRedirects,
		RespectRobots: c.Fetch.RespectRobots,
		RatePerSecond: c.Fetch.RatePerSecond,
		Burst:         c.Fetch.Burst,
	}
}

// SlogLevel maps log.level onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
