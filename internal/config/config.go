// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds each backend call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ErrNoEndpoint is returned by Validate when no backend endpoint is set.
var ErrNoEndpoint = errors.New("endpoint not configured")

// Config holds all configuration values for bcfl.
type Config struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Roster   string        `mapstructure:"roster" yaml:"roster"`
	LogLevel string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string        `mapstructure:"log_file" yaml:"log_file"`
	Journal  bool          `mapstructure:"journal" yaml:"journal"`
	Gate     bool          `mapstructure:"gate" yaml:"gate"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Timeout:  DefaultTimeout,
		LogLevel: "info",
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("bcfl")

	// Endpoint has no default - it's required
	def := Default()
	v.SetDefault("timeout", def.Timeout.String())
	v.SetDefault("roster", "")
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("journal", false)
	v.SetDefault("gate", false)

	v.SetEnvPrefix("BCFL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env-only keys.
	for _, key := range []string{"endpoint", "timeout", "roster", "log_level", "log_file", "journal", "gate"} {
		if err := v.BindEnv(key, "BCFL_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &cfg, nil
}

// Validate checks the settings a backend call depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return ErrNoEndpoint
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be an http(s) URL", c.Endpoint)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns ~/.config/bcfl/bcfl.yml or $XDG_CONFIG_HOME/bcfl/bcfl.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bcfl", "bcfl.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bcfl", "bcfl.yml")
}

// ProjectPath returns ./bcfl.yml in the current working directory.
func ProjectPath() string {
	return "bcfl.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

// fileConfig is the on-disk shape; durations are written as strings so the
// file stays readable and round-trips through viper.
type fileConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
	Roster   string `yaml:"roster,omitempty"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file,omitempty"`
	Journal  bool   `yaml:"journal"`
	Gate     bool   `yaml:"gate"`
}

func write(path string, cfg *Config) error {
	fc := fileConfig{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout.String(),
		Roster:   cfg.Roster,
		LogLevel: cfg.LogLevel,
		LogFile:  cfg.LogFile,
		Journal:  cfg.Journal,
		Gate:     cfg.Gate,
	}
	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
