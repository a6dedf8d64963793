// Package config loads application configuration from environment variables
// and an optional YAML file. Environment variables take precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for all environment variables.
const envPrefix = "BRANCHSCOPE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Querier   QuerierConfig   `yaml:"querier" envconfig:"QUERIER"`
	Narrative NarrativeConfig `yaml:"narrative" envconfig:"NARRATIVE"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	OutputDir string          `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// QuerierConfig selects and configures the branch record source
type QuerierConfig struct {
	// Source is "fdic" for the Summary of Deposits API or "csv" for a
	// local records file.
	Source  string        `yaml:"source" envconfig:"SOURCE"`
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
	CSVPath string        `yaml:"csv_path" envconfig:"CSV_PATH"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// NarrativeConfig selects and configures narrative generation
type NarrativeConfig struct {
	// Provider is "gemini" or "template".
	Provider string `yaml:"provider" envconfig:"PROVIDER"`
	APIKey   string `yaml:"api_key" envconfig:"API_KEY"`
	Model    string `yaml:"model" envconfig:"MODEL"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// defaultConfig returns the built-in baseline. Defaults live here rather
// than in envconfig tags: envconfig writes tag defaults for every unset
// variable, which would clobber values a config file already supplied.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Querier: QuerierConfig{
			Source:  "fdic",
			Timeout: 30 * time.Second,
		},
		Narrative: NarrativeConfig{
			Provider: "template",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   10,
		},
		OutputDir: "out",
	}
}

// Load layers configuration sources: built-in defaults, then the YAML file
// when path names an existing one, then environment variables. Later
// sources win, so an environment variable always overrides the file.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("load config from file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate checks the configuration for invalid combinations
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Querier.Source {
	case "fdic":
	case "csv":
		if c.Querier.CSVPath == "" {
			return fmt.Errorf("querier source %q requires csv_path", c.Querier.Source)
		}
	default:
		return fmt.Errorf("unknown querier source: %q", c.Querier.Source)
	}

	switch c.Narrative.Provider {
	case "template":
	case "gemini":
		if c.Narrative.APIKey == "" {
			return fmt.Errorf("narrative provider %q requires api_key", c.Narrative.Provider)
		}
	default:
		return fmt.Errorf("unknown narrative provider: %q", c.Narrative.Provider)
	}

	return nil
}
