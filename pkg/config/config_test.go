package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://db.ygoprodeck.com/api/v7/cardinfo.php", cfg.Catalog.Endpoint)
	assert.Equal(t, 20, cfg.RateLimit.BatchSize)
	assert.Equal(t, time.Second, cfg.RateLimit.BatchDelay)
	assert.Equal(t, StrategyBatch, cfg.RateLimit.Strategy)
	assert.Equal(t, "./CardImages", cfg.Output.Directory)
	assert.Empty(t, cfg.Output.BucketURL)
	assert.Equal(t, ReplaceAtomic, cfg.Download.ReplaceMode)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CARDFETCH_ENDPOINT", "http://localhost:8080/cards")
	t.Setenv("CARDFETCH_OUTPUT_DIR", "/tmp/cards")
	t.Setenv("CARDFETCH_BATCH_SIZE", "5")
	t.Setenv("CARDFETCH_BATCH_DELAY", "250ms")
	t.Setenv("CARDFETCH_STRATEGY", "TOKEN_BUCKET")
	t.Setenv("CARDFETCH_REPLACE_MODE", "delete_first")
	t.Setenv("CARDFETCH_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "http://localhost:8080/cards", cfg.Catalog.Endpoint)
	assert.Equal(t, "/tmp/cards", cfg.Output.Directory)
	assert.Equal(t, 5, cfg.RateLimit.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimit.BatchDelay)
	assert.Equal(t, StrategyTokenBucket, cfg.RateLimit.Strategy)
	assert.Equal(t, ReplaceDeleteFirst, cfg.Download.ReplaceMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("CARDFETCH_BATCH_SIZE", "twenty")
	t.Setenv("CARDFETCH_BATCH_DELAY", "soon")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CARDFETCH_BATCH_SIZE")
	assert.Contains(t, err.Error(), "CARDFETCH_BATCH_DELAY")
	assert.Equal(t, 20, cfg.RateLimit.BatchSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "bucket only", modify: func(c *Config) {
			c.Output.Directory = ""
			c.Output.BucketURL = "mem://"
		}},
		{name: "missing endpoint", modify: func(c *Config) { c.Catalog.Endpoint = "" }, wantError: true},
		{name: "non http endpoint", modify: func(c *Config) { c.Catalog.Endpoint = "ftp://cards" }, wantError: true},
		{name: "zero batch size", modify: func(c *Config) { c.RateLimit.BatchSize = 0 }, wantError: true},
		{name: "negative delay", modify: func(c *Config) { c.RateLimit.BatchDelay = -time.Second }, wantError: true},
		{name: "zero delay allowed", modify: func(c *Config) { c.RateLimit.BatchDelay = 0 }},
		{name: "unknown strategy", modify: func(c *Config) { c.RateLimit.Strategy = "leaky" }, wantError: true},
		{name: "no output", modify: func(c *Config) { c.Output.Directory = "" }, wantError: true},
		{name: "unknown replace mode", modify: func(c *Config) { c.Download.ReplaceMode = "merge" }, wantError: true},
		{name: "invalid log level", modify: func(c *Config) { c.Logging.Level = "loud" }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJoinsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.BatchSize = 0
	cfg.Download.ReplaceMode = "merge"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size must be positive")
	assert.Contains(t, err.Error(), "invalid replace mode")
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"endpoint":     "http://example.test/catalog",
		"output":       "/flag/output",
		"batch-size":   7,
		"batch-delay":  2 * time.Second,
		"strategy":     StrategyTokenBucket,
		"replace-mode": ReplaceDeleteFirst,
		"log-level":    "error",
	})

	assert.Equal(t, "http://example.test/catalog", cfg.Catalog.Endpoint)
	assert.Equal(t, "/flag/output", cfg.Output.Directory)
	assert.Equal(t, 7, cfg.RateLimit.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.BatchDelay)
	assert.Equal(t, StrategyTokenBucket, cfg.RateLimit.Strategy)
	assert.Equal(t, ReplaceDeleteFirst, cfg.Download.ReplaceMode)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "cardfetch.yaml")

	cfg := DefaultConfig()
	cfg.RateLimit.BatchSize = 10
	cfg.RateLimit.BatchDelay = 1500 * time.Millisecond
	cfg.Output.BucketURL = "mem://"
	require.NoError(t, cfg.Save(configPath))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, 10, loaded.RateLimit.BatchSize)
	assert.Equal(t, 1500*time.Millisecond, loaded.RateLimit.BatchDelay)
	assert.Equal(t, "mem://", loaded.Output.BucketURL)
	assert.Equal(t, cfg.Catalog.Endpoint, loaded.Catalog.Endpoint)
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rate_limit: [unclosed"), 0644))
	assert.Error(t, cfg.LoadFromFile(bad))
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "cardfetch.yaml")
	yamlContent := []byte("rate_limit:\n  batch_size: 30\n  batch_delay: 2s\noutput:\n  directory: /from/file\n")
	require.NoError(t, os.WriteFile(configPath, yamlContent, 0644))

	t.Setenv("CARDFETCH_OUTPUT_DIR", "/from/env")

	cfg, err := Load(configPath, map[string]interface{}{"batch-size": 40})
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.RateLimit.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.BatchDelay)
	assert.Equal(t, "/from/env", cfg.Output.Directory)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"), nil)
	require.Error(t, err)

	configPath := filepath.Join(t.TempDir(), "cardfetch.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("rate_limit:\n  strategy: leaky\n"), 0644))
	_, err = Load(configPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
