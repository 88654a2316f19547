// Package appconfig loads the CLI's own settings (logging format and
// level, default top-N and max-depth, load-bearing threshold) from a TOML file via
// viper, the way the teacher's CLI tooling layers config: environment
// overrides, then a config file, then built-in defaults.
package appconfig

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"symgraph/internal/logging"
)

// Config is the symgraph CLI's application configuration.
type Config struct {
	LogFormat          string `mapstructure:"log_format"`
	LogLevel           string `mapstructure:"log_level"`
	DefaultTopN        int    `mapstructure:"default_top_n"`
	DefaultMaxDepth    int    `mapstructure:"default_max_depth"`
	LoadBearingThreshold int  `mapstructure:"load_bearing_threshold"`
}

func defaults() Config {
	return Config{
		LogFormat:            "human",
		LogLevel:             "info",
		DefaultTopN:          20,
		DefaultMaxDepth:      5,
		LoadBearingThreshold: 3,
	}
}

// Load reads symgraph.toml from configPath (if non-empty) or the current
// directory, falling back to defaults() for anything unset. Environment
// variables prefixed SYMGRAPH_ override file values.
func Load(configPath string) (Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("symgraph")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("default_top_n", cfg.DefaultTopN)
	v.SetDefault("default_max_depth", cfg.DefaultMaxDepth)
	v.SetDefault("load_bearing_threshold", cfg.LoadBearingThreshold)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("symgraph")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LogLevelValue parses Config.LogLevel into a logging.LogLevel, defaulting
// to info on an unrecognized value.
func (c Config) LogLevelValue() logging.LogLevel {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return logging.DebugLevel
	case "warn", "warning":
		return logging.WarnLevel
	case "error":
		return logging.ErrorLevel
	default:
		return logging.InfoLevel
	}
}

// LogFormatValue parses Config.LogFormat into a logging.Format.
func (c Config) LogFormatValue() logging.Format {
	if strings.ToLower(c.LogFormat) == "json" {
		return logging.JSONFormat
	}
	return logging.HumanFormat
}
