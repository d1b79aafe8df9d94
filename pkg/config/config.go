package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by LoadFromEnv
const EnvPrefix = "CARDFETCH_"

// Pacing strategies
const (
	StrategyBatch       = "batch"
	StrategyTokenBucket = "token_bucket"
)

// Replace modes for an asset that already exists in the output
const (
	ReplaceAtomic      = "atomic"
	ReplaceDeleteFirst = "delete_first"
)

// Config holds all configuration options for cardfetch
type Config struct {
	// Remote catalog settings
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`

	// Batching and pacing
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Where assets are written
	Output OutputConfig `yaml:"output" json:"output"`

	// Per-asset download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CatalogConfig holds catalog API configuration
type CatalogConfig struct {
	Endpoint  string        `yaml:"endpoint" json:"endpoint"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds batching configuration. The defaults give 20
// requests per second.
type RateLimitConfig struct {
	BatchSize  int           `yaml:"batch_size" json:"batch_size"`
	BatchDelay time.Duration `yaml:"batch_delay" json:"batch_delay"`
	Strategy   string        `yaml:"strategy" json:"strategy"`
}

// OutputConfig holds output location configuration. BucketURL, when set,
// takes precedence over Directory.
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	BucketURL string `yaml:"bucket_url" json:"bucket_url"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	ReplaceMode string        `yaml:"replace_mode" json:"replace_mode"`
	MaxFileSize int64         `yaml:"max_file_size" json:"max_file_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Endpoint:  "https://db.ygoprodeck.com/api/v7/cardinfo.php",
			UserAgent: "cardfetch/1.0",
			Timeout:   2 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			BatchSize:  20,
			BatchDelay: time.Second,
			Strategy:   StrategyBatch,
		},
		Output: OutputConfig{
			Directory: "./CardImages",
		},
		Download: DownloadConfig{
			Timeout:     30 * time.Second,
			ReplaceMode: ReplaceAtomic,
			MaxFileSize: 0, // 0 means no limit
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from CARDFETCH_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(EnvPrefix + "ENDPOINT"); v != "" {
		c.Catalog.Endpoint = v
	}
	if v := os.Getenv(EnvPrefix + "USER_AGENT"); v != "" {
		c.Catalog.UserAgent = v
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv(EnvPrefix + "BUCKET_URL"); v != "" {
		c.Output.BucketURL = v
	}
	if v := os.Getenv(EnvPrefix + "BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sBATCH_SIZE: %w", EnvPrefix, err))
		} else {
			c.RateLimit.BatchSize = n
		}
	}
	if v := os.Getenv(EnvPrefix + "BATCH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sBATCH_DELAY: %w", EnvPrefix, err))
		} else {
			c.RateLimit.BatchDelay = d
		}
	}
	if v := os.Getenv(EnvPrefix + "STRATEGY"); v != "" {
		c.RateLimit.Strategy = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "REPLACE_MODE"); v != "" {
		c.Download.ReplaceMode = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations
func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".cardfetch.yaml",
		".cardfetch.yml",
		filepath.Join(home, ".config", "cardfetch", "config.yaml"),
		filepath.Join(home, ".config", "cardfetch", "config.yml"),
		filepath.Join(home, ".cardfetch.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Catalog.Endpoint == "" {
		errs = append(errs, errors.New("catalog endpoint is required"))
	} else if !strings.HasPrefix(c.Catalog.Endpoint, "http://") && !strings.HasPrefix(c.Catalog.Endpoint, "https://") {
		errs = append(errs, errors.New("catalog endpoint must be an http(s) URL"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog timeout must be positive"))
	}

	if c.RateLimit.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if c.RateLimit.BatchDelay < 0 {
		errs = append(errs, errors.New("batch delay cannot be negative"))
	}
	switch c.RateLimit.Strategy {
	case StrategyBatch, StrategyTokenBucket:
	default:
		errs = append(errs, fmt.Errorf("invalid pacing strategy %q", c.RateLimit.Strategy))
	}

	if c.Output.Directory == "" && c.Output.BucketURL == "" {
		errs = append(errs, errors.New("output directory or bucket URL is required"))
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	switch c.Download.ReplaceMode {
	case ReplaceAtomic, ReplaceDeleteFirst:
	default:
		errs = append(errs, fmt.Errorf("invalid replace mode %q", c.Download.ReplaceMode))
	}
	if c.Download.MaxFileSize < 0 {
		errs = append(errs, errors.New("max file size cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Keys mirror the long flag names of the fetch command.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["endpoint"].(string); ok && v != "" {
		c.Catalog.Endpoint = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["bucket"].(string); ok && v != "" {
		c.Output.BucketURL = v
	}
	if v, ok := flags["batch-size"].(int); ok && v > 0 {
		c.RateLimit.BatchSize = v
	}
	if v, ok := flags["batch-delay"].(time.Duration); ok {
		c.RateLimit.BatchDelay = v
	}
	if v, ok := flags["strategy"].(string); ok && v != "" {
		c.RateLimit.Strategy = v
	}
	if v, ok := flags["replace-mode"].(string); ok && v != "" {
		c.Download.ReplaceMode = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.Download.Timeout = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".cardfetch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
