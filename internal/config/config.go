package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDirName             = "s3bmon"
	configFileName         = "config.yaml"
	defaultRefreshInterval = 60 * time.Second
)

// AWSConfig holds credential and region selection
type AWSConfig struct {
	Profile string `yaml:"profile"`
	Region  string `yaml:"region"`
}

// Config holds application configuration
type Config struct {
	RefreshIntervalSeconds int       `yaml:"refresh_interval_seconds"`
	AWS                    AWSConfig `yaml:"aws"`
	LogFile                string    `yaml:"log_file"` // empty disables logging
}

// RefreshInterval returns the poll interval, defaulting to one minute
func (c *Config) RefreshInterval() time.Duration {
	if c.RefreshIntervalSeconds <= 0 {
		return defaultRefreshInterval
	}
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads config from $S3BMON_CONFIG, then the XDG config dir,
// then ~/.config. A missing file yields the defaults, not an error.
func LoadDefault() (*Config, error) {
	if path := os.Getenv("S3BMON_CONFIG"); path != "" {
		return Load(path)
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		path := filepath.Join(xdg, appDirName, configFileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home dir: %w", err)
	}

	path := filepath.Join(home, ".config", appDirName, configFileName)
	if _, err := os.Stat(path); err != nil {
		return &Config{}, nil
	}
	return Load(path)
}
