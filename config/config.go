// Package config loads pccasset settings from defaults, an optional config
// file and PCCASSET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application name.
	AppName = "pccasset"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "pccasset"
	// EnvPrefix prefixes environment overrides, e.g. PCCASSET_LISTEN.
	EnvPrefix = "PCCASSET"
)

// Config is the resolved configuration.
type Config struct {
	Listen        string `mapstructure:"listen" yaml:"listen"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	TextureFormat string `mapstructure:"texture_format" yaml:"texture_format"`
	ExporterPath  string `mapstructure:"exporter_path" yaml:"exporter_path"`

	// Games maps a game id to the install directories scanned for its
	// loaded packages, base game first.
	Games       map[string][]string `mapstructure:"games" yaml:"games"`
	DefaultGame string              `mapstructure:"default_game" yaml:"default_game"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Listen:        "localhost:5000",
		LogLevel:      "info",
		TextureFormat: "png",
		Games:         map[string][]string{},
		DefaultGame:   "le1",
	}
}

var textureFormats = []string{"png", "jpeg", "jpg", "bmp", "tga", "tiff", "tif", "gif"}

// Load reads the config. An explicit path must exist; otherwise
// pccasset.{yaml,toml,json} is looked up in the working directory and the
// user config directory, and a missing file means defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("listen", defaults.Listen)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("texture_format", defaults.TextureFormat)
	v.SetDefault("exporter_path", defaults.ExporterPath)
	v.SetDefault("games", defaults.Games)
	v.SetDefault("default_game", defaults.DefaultGame)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is empty")
	}
	c.TextureFormat = strings.ToLower(c.TextureFormat)
	for _, f := range textureFormats {
		if c.TextureFormat == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported texture_format %q", c.TextureFormat)
}

// Write prints c as YAML, the same shape Load reads.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
