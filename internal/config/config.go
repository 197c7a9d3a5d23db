// Package config loads application settings from config.yaml, ACTUALIZE_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/actualize/actualize/internal/catalog"
)

// EnvPrefix is prepended to environment variable names, e.g. ACTUALIZE_SERVER_PORT.
const EnvPrefix = "ACTUALIZE"

type Config struct {
	Env          string         `mapstructure:"env" validate:"oneof=local development production"`
	Log          LogConfig      `mapstructure:"log"`
	Database     DatabaseConfig `mapstructure:"database"`
	Catalog      CatalogConfig  `mapstructure:"catalog"`
	TotalLessons int            `mapstructure:"total_lessons" validate:"min=1"`
	Practice     PracticeConfig `mapstructure:"practice"`
	Server       ServerConfig   `mapstructure:"server"`
	Report       ReportConfig   `mapstructure:"report"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	// File receives log output while the terminal UI owns the screen.
	// Empty means a file next to the database.
	File string `mapstructure:"file"`
}

type DatabaseConfig struct {
	// Path to the SQLite file. Empty resolves through store.DefaultDBPath.
	Path string `mapstructure:"path"`
}

type CatalogConfig struct {
	// Path to a JSON or YAML catalog replacing the built-in one.
	Path string `mapstructure:"path" validate:"omitempty,file"`
}

type PracticeConfig struct {
	DefaultVariant string `mapstructure:"default_variant" validate:"oneof=enhanced legacy"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

type ReportConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

// Variant returns the configured default exam variant.
func (c *Config) Variant() catalog.Variant {
	return catalog.Variant(c.Practice.DefaultVariant)
}

type ConfigLoader struct {
	viper     *viper.Viper
	validator *Validator
}

// NewConfigLoader prepares a loader. An empty configFile searches for
// config.yaml in the working directory and $HOME/.config/actualize.
func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/actualize")
	}

	return &ConfigLoader{
		viper:     v,
		validator: validate,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("database.path", "")
	v.SetDefault("catalog.path", "")
	v.SetDefault("total_lessons", catalog.TotalLessons)
	v.SetDefault("practice.default_variant", string(catalog.VariantEnhanced))
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("report.directory", "reports")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the file that was read, if any.
func (loader *ConfigLoader) ConfigFileUsed() string {
	return loader.viper.ConfigFileUsed()
}
