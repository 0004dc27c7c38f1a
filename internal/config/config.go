// Package config loads vcctl settings from file, environment and flags.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// Keys shared by the config file, VCCTL_* environment variables and CLI flags.
const (
	KeyDevicePath = "device_path"
	KeyLogLevel   = "log_level"
	KeyOutput     = "output"
)

// Config holds the runtime configuration.
type Config struct {
	DevicePath string `mapstructure:"device_path"`
	LogLevel   string `mapstructure:"log_level"`
	Output     string `mapstructure:"output"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDevicePath, types.DefaultDevicePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyOutput, "table")
}

// New returns a viper instance with the search paths, env binding and defaults
// set up. configFile, when non-empty, replaces the search.
func New(configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("vcctl-config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.vcctl")
		v.AddConfigPath("/etc/vcctl")
	}

	SetDefaults(v)

	v.SetEnvPrefix("VCCTL")
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and unmarshals v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.DevicePath == "" {
		return fmt.Errorf("%s cannot be empty", KeyDevicePath)
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output)
	}
	return nil
}
