package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/retry"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "buildreloc.yaml"

// Config represents the application configuration
type Config struct {
	Root   RootConfig   `yaml:"root"`
	Output OutputConfig `yaml:"output"`
	// Explicit subproject names or Gradle paths. When empty the Gradle
	// settings file is read instead.
	Subprojects  []string      `yaml:"subprojects,omitempty"`
	SettingsFile string        `yaml:"settings_file,omitempty"`
	Clean        CleanConfig   `yaml:"clean"`
	History      HistoryConfig `yaml:"history"`
	Notify       NotifyConfig  `yaml:"notify"`
	Metrics      MetricsConfig `yaml:"metrics"`
	Logging      LoggingConfig `yaml:"logging"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// RootConfig describes the root project
type RootConfig struct {
	Dir           string `yaml:"dir"`
	Name          string `yaml:"name,omitempty"` // defaults to rootProject.name or the directory name
	DefaultOutput string `yaml:"default_output,omitempty"`
}

// OutputConfig describes where outputs are relocated to
type OutputConfig struct {
	// Offset is resolved against the root's default output directory.
	Offset string `yaml:"offset"`
}

// CleanConfig configures the cleanup task
type CleanConfig struct {
	TaskName string `yaml:"task_name"`
	Schedule string `yaml:"schedule,omitempty"` // cron expression, watch mode only
}

// HistoryConfig configures the SQLite run history
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"` // empty disables history
}

// NotifyConfig configures NATS event publishing
type NotifyConfig struct {
	NATSURL string      `yaml:"nats_url,omitempty"` // empty disables publishing
	Subject string      `yaml:"subject,omitempty"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig configures backoff for transient publish failures
type RetryConfig struct {
	Backoff string        `yaml:"backoff,omitempty"` // fixed|linear|exponential
	Initial time.Duration `yaml:"initial,omitempty"`
	Max     time.Duration `yaml:"max,omitempty"`
	// MaxRetries of zero selects the default; negative disables retries.
	MaxRetries int `yaml:"max_retries,omitempty"`
}

// Policy converts the settings to a retry policy.
func (r RetryConfig) Policy() retry.Policy {
	maxRetries := r.MaxRetries
	switch {
	case maxRetries < 0:
		maxRetries = 0
	case maxRetries == 0:
		maxRetries = retry.DefaultPolicy().MaxRetries
	}
	return retry.NewPolicy(retry.BackoffMode(r.Backoff), r.Initial, r.Max, maxRetries)
}

// MetricsConfig configures metrics export
type MetricsConfig struct {
	File   string `yaml:"file,omitempty"`   // textfile written after one-shot commands
	Listen string `yaml:"listen,omitempty"` // HTTP address served in watch mode
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, relerrors.ConfigNotFound(configPath)
		}
		return nil, relerrors.Wrap(err, relerrors.CategoryConfig, relerrors.SeverityFatal, "failed to read config file")
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, relerrors.Wrap(err, relerrors.CategoryConfig, relerrors.SeverityFatal, "failed to parse config file").
			WithContext("path", configPath)
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.dir = filepath.Dir(abs)

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists: the Gradle
// project in dir, relocated with the Flutter-style "../../build" offset.
func Default(dir string) (*Config, error) {
	loadEnvFiles()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	cfg := &Config{Root: RootConfig{Dir: "."}, dir: abs}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configPath when given. With an empty path it loads
// DefaultFileName from dir if present, and falls back to Default(dir).
func LoadOrDefault(configPath, dir string) (*Config, error) {
	if configPath != "" {
		return Load(configPath)
	}
	candidate := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(candidate); err == nil {
		return Load(candidate)
	}
	return Default(dir)
}

// Dir returns the directory relative paths are resolved against.
func (c *Config) Dir() string { return c.dir }

// ResolvePath makes p absolute relative to the configuration directory.
// Empty input stays empty.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// RootDir returns the absolute root project directory.
func (c *Config) RootDir() string {
	return c.ResolvePath(c.Root.Dir)
}
