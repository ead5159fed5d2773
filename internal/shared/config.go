package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	IDs      IDConfig       `toml:"ids"`
	Import   ImportConfig   `toml:"import"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path          string `toml:"path"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
}

// Options converts the section into [DatabaseOptions].
func (d DatabaseConfig) Options() DatabaseOptions {
	return DatabaseOptions{BusyTimeoutMS: d.BusyTimeoutMS, MaxOpenConns: d.MaxOpenConns, MaxIdleConns: d.MaxIdleConns}
}

// IDConfig controls slug id allocation.
type IDConfig struct {
	MaxAttempts int `toml:"max_attempts"` // upper bound on probe-and-claim attempts per create
}

// ImportConfig contains bulk import settings.
type ImportConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"` // creates per second
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate rejects settings the store or allocator cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, "database.path is empty")
	}
	if c.Database.BusyTimeoutMS < 0 {
		problems = append(problems, "database.busy_timeout_ms is negative")
	}
	if c.IDs.MaxAttempts <= 0 {
		problems = append(problems, "ids.max_attempts must be positive")
	}
	if c.Import.Workers <= 0 {
		problems = append(problems, "import.workers must be positive")
	}
	if c.Import.RateLimit <= 0 {
		problems = append(problems, "import.rate_limit must be positive")
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is unknown", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
