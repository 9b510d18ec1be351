// Package config loads environment options for template renders.
//
// Values come from an optional config file (any format viper reads), an optional .env file
// and ASYNCFILTERS_* environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix is the prefix of environment variables read by Load.
const DefaultEnvPrefix = "ASYNCFILTERS"

// Config holds the options of a template environment.
type Config struct {
	Autoescape  bool    `yaml:"autoescape" mapstructure:"autoescape"`
	EnableAsync bool    `yaml:"enable_async" mapstructure:"enable_async"`
	Logging     Logging `yaml:"logging" mapstructure:"logging"`
}

// Logging configures the render logger.
type Logging struct {
	Level   string `yaml:"level" mapstructure:"level"`
	Format  string `yaml:"format" mapstructure:"format"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
}

// LoaderOptions tells Load where to look.
type LoaderOptions struct {
	ConfigFile string
	EnvFile    string
	EnvPrefix  string
}

// ApplyDefaults fills in unset values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "pretty":
	default:
		return fmt.Errorf("logging.format must be one of [json, console, pretty] (got: %s)", c.Logging.Format)
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// Load reads the configuration described by opts, applies defaults and validates it.
func Load(opts LoaderOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to known keys, so every key gets a default.
	v.SetDefault("autoescape", false)
	v.SetDefault("enable_async", false)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.no_color", false)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
