package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 3, cfg.Fetch.MaxRedirects)
	assert.Equal(t, BackendFile, cfg.Learning.Backend)
	assert.Equal(t, "data/learning.json", cfg.Learning.Path)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadWithFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
scrape:
  timeout: 20s
fetch:
  timeout: 5s
  max_redirects: 2
  respect_robots: true
  rate_per_second: 0.5
  burst: 1
learning:
  backend: postgres
database:
  url: postgres://localhost/jobs
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, BackendPostgres, cfg.Learning.Backend)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	fc := cfg.FetcherConfig()
	assert.Equal(t, 5*time.Second, fc.Timeout)
	assert.Equal(t, 2, fc.MaxRedirects)
	assert.True(t, fc.RespectRobots)
	assert.InDelta(t, 0.5, fc.RatePerSecond, 1e-9)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JOBEXTRACT_SERVER_PORT", "7070")
	t.Setenv("JOBEXTRACT_LEARNING_BACKEND", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Learning.Backend)
}

func TestValidateRejects(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	tests := map[string]func(*Config){
		"bad port":             func(c *Config) { c.Server.Port = 0 },
		"unknown backend":      func(c *Config) { c.Learning.Backend = "redis" },
		"postgres without url": func(c *Config) { c.Learning.Backend = BackendPostgres },
		"file without path":    func(c *Config) { c.Learning.Path = "" },
		"fetch beyond scrape":  func(c *Config) { c.Fetch.Timeout = time.Minute },
		"bad level":            func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
