package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
	"github.com/jamesainslie/fswhy/pkg/fswhy/view"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// HistoryConfig configures the scan history store.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config represents the application configuration.
type Config struct {
	DefaultPath   string        `mapstructure:"default_path"`
	Sort          string        `mapstructure:"sort"`
	ExpandDepth   int           `mapstructure:"expand_depth"`
	Exclude       []string      `mapstructure:"exclude"`
	OneFileSystem bool          `mapstructure:"one_file_system"`
	Theme         string        `mapstructure:"theme"`
	History       HistoryConfig `mapstructure:"history"`
	Logging       LoggingConfig `mapstructure:"logging"`
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("sort", DefaultSort)
	v.SetDefault("expand_depth", DefaultExpandDepth)
	v.SetDefault("exclude", DefaultExclusions)
	v.SetDefault("one_file_system", false)
	v.SetDefault("theme", "")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "") // Empty means DefaultHistoryPath

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means logging.DefaultLogPath
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_backups", DefaultLogMaxBackups)
	v.SetDefault("logging.components", DefaultComponentLevels())
}

// Setup prepares v to read config from file and environment.
// An explicit file takes the place of the search paths:
//   - $XDG_CONFIG_HOME/fswhy/config.yaml
//   - $HOME/.config/fswhy/config.yaml
//
// Environment variables are prefixed with FSWHY_ (e.g., FSWHY_SORT=size).
func Setup(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "fswhy"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "fswhy"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
}

// Read reads the config file into v. A missing file in the search paths
// is not an error; a missing explicit file is.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// Load loads configuration from the default locations and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from file, or from the default locations
// when file is empty.
func LoadFile(file string) (*Config, error) {
	v := viper.New()
	Setup(v, file)
	if err := Read(v); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.DefaultPath, err = ExpandPath(cfg.DefaultPath); err != nil {
		return nil, err
	}
	if cfg.History.Path, err = ExpandPath(cfg.History.Path); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = ExpandPath(cfg.Logging.Path); err != nil {
		return nil, err
	}
	if cfg.Theme, err = ExpandPath(cfg.Theme); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := view.ParseSortMode(c.Sort); err != nil {
		return fmt.Errorf("%w: sort: %w", ErrInvalidConfig, err)
	}
	if c.ExpandDepth < 0 {
		return fmt.Errorf("%w: expand_depth must not be negative, got %d", ErrInvalidConfig, c.ExpandDepth)
	}
	if err := tree.ValidateExcludes(c.Exclude); err != nil {
		return fmt.Errorf("%w: exclude: %w", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	for comp, lvl := range c.Logging.Components {
		if _, err := logging.ParseLevel(lvl); err != nil {
			return fmt.Errorf("%w: logging.components.%s: %w", ErrInvalidConfig, comp, err)
		}
	}
	if c.Logging.Rotation.MaxSize != "" {
		if _, err := types.ParseSize(c.Logging.Rotation.MaxSize); err != nil {
			return fmt.Errorf("%w: logging.rotation.max_size: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// SortMode returns the configured initial sort mode.
func (c *Config) SortMode() view.SortMode {
	m, _ := view.ParseSortMode(c.Sort)
	return m
}

// HistoryPath returns the history database directory.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return DefaultHistoryPath()
}

// LoggingConfig converts the logging section for logging.Init.
func (c *Config) LoggingConfig() logging.Config {
	rotation := logging.DefaultRotationConfig()
	if size, err := types.ParseSize(c.Logging.Rotation.MaxSize); err == nil && size > 0 {
		rotation.MaxSize = size
	}
	if c.Logging.Rotation.MaxBackups > 0 {
		rotation.MaxBackups = c.Logging.Rotation.MaxBackups
	}
	return logging.Config{
		Level:      c.Logging.Level,
		Path:       c.Logging.Path,
		Rotation:   rotation,
		Components: c.Logging.Components,
	}
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "fswhy"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "fswhy"), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns $XDG_DATA_HOME/fswhy/ for the history database.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "fswhy")
}

// StateDir returns $XDG_STATE_HOME/fswhy/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "fswhy")
}

// DefaultHistoryPath returns the default history database directory.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// WriteDefault writes a default config file if none exists and returns
// its path. An existing file is left untouched.
func WriteDefault() (path string, created bool, err error) {
	path, err = ConfigPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write default config: %w", err)
	}

	return path, true, nil
}

const defaultConfigTemplate = `# fswhy configuration

# Path to scan when none is given on the command line
default_path: .

# Initial sort order: name or size
sort: name

# Directory levels expanded on startup (1 = root only)
expand_depth: 1

# Glob patterns to leave out of the scan
exclude:
  - /proc
  - /sys
  - /dev

# Stay on the filesystem of the scanned path
one_file_system: false

# Theme file (TOML). Empty looks for $FSWHY_THEME, then ./theme.toml
theme: ""

# Scan history, used by "fswhy history"
history:
  enabled: true
  # Empty means $XDG_DATA_HOME/fswhy/history
  path: ""

logging:
  # Log level: debug, info, warn, error
  level: info
  # Empty means $XDG_STATE_HOME/fswhy/fswhy.log
  path: ""
  rotation:
    max_size: 10MB
    max_backups: 3
  components:
    scanner: info
    view: info
    tui: info
    history: info
    output: info
    cli: info
`
