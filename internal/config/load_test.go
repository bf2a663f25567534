package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/flashcard/internal/policy"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

// setupEnv sets the given variables for the duration of the test. viper
// treats an empty value as unset.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

func TestLoadDefaults(t *testing.T) {
	setupEnv(t, map[string]string{
		"FLASHCARD_AUTH_JWT_SECRET":  testSecret,
		"FLASHCARD_SERVER_PORT":      "",
		"FLASHCARD_SERVER_LOG_LEVEL": "",
	})

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, slog.LevelInfo, cfg.Server.SlogLevel())
	assert.Equal(t, "data/flashcard.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, policy.EnforceOwnership, cfg.Policy.StudySets())
	assert.Equal(t, policy.EnforceOwnership, cfg.Policy.Flashcards())
}

func TestLoadFromEnv(t *testing.T) {
	setupEnv(t, map[string]string{
		"FLASHCARD_SERVER_PORT":                "9090",
		"FLASHCARD_SERVER_LOG_LEVEL":           "DEBUG",
		"FLASHCARD_DATABASE_PATH":              ":memory:",
		"FLASHCARD_AUTH_JWT_SECRET":            testSecret,
		"FLASHCARD_AUTH_TOKEN_TTL":             "15m",
		"FLASHCARD_POLICY_STUDY_SET_OWNERSHIP": "Skip",
	})

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Server.SlogLevel())
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, policy.SkipOwnership, cfg.Policy.StudySets())
	assert.Equal(t, policy.EnforceOwnership, cfg.Policy.Flashcards())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashcard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
auth:
  jwt_secret: file-secret-0123456789
policy:
  flashcard_ownership: skip
`), 0o600))

	// the environment still wins over the file
	setupEnv(t, map[string]string{"FLASHCARD_SERVER_PORT": "7171"})

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 7171, cfg.Server.Port)
	assert.Equal(t, "file-secret-0123456789", cfg.Auth.JWTSecret)
	assert.Equal(t, policy.SkipOwnership, cfg.Policy.Flashcards())
}

func TestLoadMissingFile(t *testing.T) {
	setupEnv(t, map[string]string{"FLASHCARD_AUTH_JWT_SECRET": testSecret})

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "missing JWT secret",
			envVars: map[string]string{"FLASHCARD_SERVER_PORT": "9090"},
		},
		{
			name: "short JWT secret",
			envVars: map[string]string{
				"FLASHCARD_AUTH_JWT_SECRET": "tooshort",
			},
		},
		{
			name: "port out of range",
			envVars: map[string]string{
				"FLASHCARD_AUTH_JWT_SECRET": testSecret,
				"FLASHCARD_SERVER_PORT":     "999999",
			},
		},
		{
			name: "invalid log level",
			envVars: map[string]string{
				"FLASHCARD_AUTH_JWT_SECRET":  testSecret,
				"FLASHCARD_SERVER_LOG_LEVEL": "chatty",
			},
		},
		{
			name: "invalid ownership mode",
			envVars: map[string]string{
				"FLASHCARD_AUTH_JWT_SECRET":            testSecret,
				"FLASHCARD_POLICY_FLASHCARD_OWNERSHIP": "sometimes",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// clear the secret so cases that omit it really have none
			t.Setenv("FLASHCARD_AUTH_JWT_SECRET", "")
			setupEnv(t, tc.envVars)

			cfg, err := Load("")

			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg)
		})
	}
}
