package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, with "." in the key
// replaced by "_": server.port is FLASHCARD_SERVER_PORT.
const EnvPrefix = "FLASHCARD"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.path", "data/flashcard.db")
	// No default secret. Every key still needs a default so AutomaticEnv can
	// see it during Unmarshal.
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("policy.study_set_ownership", "enforce")
	v.SetDefault("policy.flashcard_ownership", "enforce")
}

// Load builds the configuration. Precedence, highest first: environment,
// config file, defaults.
//
// configFile may be empty, in which case ./config.yaml is read if it exists.
// A configFile that is named but missing is an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	normalize(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &cfg, nil
}

// normalize lowercases the enum-like values so "Enforce" and "DEBUG" work.
func normalize(cfg *Config) {
	clean := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	cfg.Server.LogLevel = clean(cfg.Server.LogLevel)
	cfg.Policy.StudySetOwnership = clean(cfg.Policy.StudySetOwnership)
	cfg.Policy.FlashcardOwnership = clean(cfg.Policy.FlashcardOwnership)
}
