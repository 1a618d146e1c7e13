// Package system loads the tool's own configuration (~/.sst.yaml and SST_*
// environment variables).
package system

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/reglet-dev/sst/internal/application/errors"
	"github.com/reglet-dev/sst/internal/domain/abi"
)

const (
	configName = ".sst"
	envPrefix  = "SST"
)

// Config is the sandboxer configuration.
type Config struct {
	LogLevel    string            `mapstructure:"log_level"`
	PolicyFiles []string          `mapstructure:"policy_files"`
	Enforcement EnforcementConfig `mapstructure:"enforcement"`
}

// EnforcementConfig tunes how the ruleset is sealed.
type EnforcementConfig struct {
	// LogNewExec asks the kernel to log denials of the executed program.
	// Ignored below ABI v7.
	LogNewExec bool `mapstructure:"log_new_exec"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		PolicyFiles: []string{},
		Enforcement: EnforcementConfig{
			LogNewExec: true,
		},
	}
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RestrictFlags returns the restrict flags requested by the configuration.
func (c *Config) RestrictFlags() abi.RestrictFlags {
	var flags abi.RestrictFlags
	if c.Enforcement.LogNewExec {
		flags |= abi.RestrictLogNewExecOn
	}
	return flags
}

// ConfigLoader loads configuration with viper.
type ConfigLoader struct {
	home string
}

// NewConfigLoader creates a loader that looks in the user's home directory.
func NewConfigLoader() *ConfigLoader {
	home, _ := os.UserHomeDir()
	return &ConfigLoader{home: home}
}

// Load reads path, or ~/.sst.yaml when path is empty, and overlays SST_*
// environment variables. A missing file yields the defaults.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("policy_files", defaults.PolicyFiles)
	v.SetDefault("enforcement.log_new_exec", defaults.Enforcement.LogNewExec)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := l.read(v, path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigurationError("config", "failed to decode configuration", err)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return nil, apperrors.NewConfigurationError("config", fmt.Sprintf("unknown log_level %q", cfg.LogLevel), nil)
	}

	return &cfg, nil
}

func (l *ConfigLoader) read(v *viper.Viper, path string) error {
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
		v.SetConfigFile(path)
	} else {
		if l.home == "" {
			return nil
		}
		v.AddConfigPath(l.home)
		v.SetConfigType("yaml")
		v.SetConfigName(configName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return apperrors.NewConfigurationError("config", "failed to read configuration", err)
	}

	slog.Debug("using config file", "file", v.ConfigFileUsed())
	return nil
}
