package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/storage/postgres"
	"github.com/julianstephens/droplet/internal/utils"
)

// Config represents the complete application configuration
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Wizard      WizardConfig      `mapstructure:"wizard"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Timezone    string            `mapstructure:"timezone"`
	Recognition RecognitionConfig `mapstructure:"recognition"`
}

// StorageConfig selects the local fallback store and the remote store
type StorageConfig struct {
	LocalPath string        `mapstructure:"local_path"`
	Remote    string        `mapstructure:"remote"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type WizardConfig struct {
	ComputeDelay time.Duration `mapstructure:"compute_delay"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig tunes the rotating log file under the config directory
type LoggingConfig struct {
	Debug      bool   `mapstructure:"debug"`
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// RecognitionConfig points at the footprint recognition service used by scan
type RecognitionConfig struct {
	URL string `mapstructure:"url"`
}

// DefaultPath returns the config file looked up when --config is not given
func DefaultPath() string {
	return filepath.Join(expandHome(constants.DefaultConfigDir), "config.yaml")
}

// Load reads configuration from an optional file, a .env file in the working
// directory, and DROPLET_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(expandHome(path))
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Storage.LocalPath = expandHome(cfg.Storage.LocalPath)
	if !postgres.IsConnString(cfg.Storage.Remote) && !strings.Contains(cfg.Storage.Remote, "://") {
		cfg.Storage.Remote = expandHome(cfg.Storage.Remote)
	}
	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.local_path", constants.DefaultLocalPath)
	v.SetDefault("storage.remote", "")
	v.SetDefault("storage.timeout", constants.DefaultRemoteTimeout.String())

	v.SetDefault("wizard.compute_delay", constants.DefaultComputeDelay.String())
	v.SetDefault("server.addr", constants.DefaultServerAddr)
	v.SetDefault("logging.debug", false)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
	rot := logger.DefaultRotation()
	v.SetDefault("logging.max_size_mb", rot.MaxSizeMB)
	v.SetDefault("logging.max_backups", rot.MaxBackups)
	v.SetDefault("logging.max_age_days", rot.MaxAgeDays)
	v.SetDefault("timezone", "Local")
	v.SetDefault("recognition.url", "")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Storage.LocalPath == "" {
		return fmt.Errorf("storage.local_path is required")
	}
	if c.Storage.Timeout <= 0 {
		return fmt.Errorf("storage.timeout must be positive")
	}
	if postgres.IsConnString(c.Storage.Remote) {
		if _, err := postgres.ValidateConnString(c.Storage.Remote); err != nil {
			return fmt.Errorf("storage.remote: %w", err)
		}
	}

	if c.Wizard.ComputeDelay < 0 {
		return fmt.Errorf("wizard.compute_delay cannot be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := logger.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("logging rotation limits cannot be negative")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("timezone %q is not a valid IANA timezone", c.Timezone)
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ConfigDir is the directory holding logs and the default local store
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.Storage.LocalPath)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// LoggerConfig builds the logger settings rooted at ConfigDir
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Debug:     c.Logging.Debug,
		ConfigDir: c.ConfigDir(),
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		Rotation: logger.Rotation{
			MaxSizeMB:  c.Logging.MaxSizeMB,
			MaxBackups: c.Logging.MaxBackups,
			MaxAgeDays: c.Logging.MaxAgeDays,
		},
	}
}
