// Package config loads the server configuration from defaults, an optional
// config.yaml and FLASHCARD_* environment variables, then validates it.
package config

import (
	"log/slog"
	"time"

	"github.com/sakif/flashcard/internal/policy"
)

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Policy   PolicyConfig   `mapstructure:"policy"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// SlogLevel converts LogLevel for slog.HandlerOptions.
func (c ServerConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type DatabaseConfig struct {
	// Path is a SQLite file path, or ":memory:".
	Path string `mapstructure:"path" validate:"required"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

// PolicyConfig selects how strictly authorship is checked.
//
// StudySetOwnership applies to study set update and delete.
// FlashcardOwnership applies to adding a flashcard to a set. Flashcard get,
// update and delete always enforce ownership.
type PolicyConfig struct {
	StudySetOwnership  string `mapstructure:"study_set_ownership" validate:"oneof=enforce skip"`
	FlashcardOwnership string `mapstructure:"flashcard_ownership" validate:"oneof=enforce skip"`
}

// StudySets returns the parsed study set ownership mode. Load has already
// validated the value.
func (c PolicyConfig) StudySets() policy.Ownership {
	mode, _ := policy.ParseOwnership(c.StudySetOwnership)
	return mode
}

// Flashcards returns the parsed flashcard creation ownership mode.
func (c PolicyConfig) Flashcards() policy.Ownership {
	mode, _ := policy.ParseOwnership(c.FlashcardOwnership)
	return mode
}
