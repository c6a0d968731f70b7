package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Addr:             ":8080",
		DBPath:           "file:flashdeck.db",
		LogLevel:         "INFO",
		QuestionSeconds:  10,
		PointsPerCorrect: 10,
		ChoiceAdvanceMS:  1000,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "QUESTION_SECONDS", "POINTS_PER_CORRECT", "CHOICE_ADVANCE_MS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, validConfig(), cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("QUESTION_SECONDS", "30")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 30, cfg.QuestionSeconds)
}

func TestLoadIgnoresUnparseableInts(t *testing.T) {
	t.Setenv("QUESTION_SECONDS", "forever")

	cfg := Load()
	assert.Equal(t, 10, cfg.QuestionSeconds)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }, "ADDR"},
		{"empty db path", func(c *Config) { c.DBPath = "" }, "DB_PATH"},
		{"unknown log level", func(c *Config) { c.LogLevel = "LOUD" }, "LOG_LEVEL"},
		{"zero question seconds", func(c *Config) { c.QuestionSeconds = 0 }, "QUESTION_SECONDS"},
		{"zero points", func(c *Config) { c.PointsPerCorrect = 0 }, "POINTS_PER_CORRECT"},
		{"negative advance delay", func(c *Config) { c.ChoiceAdvanceMS = -1 }, "CHOICE_ADVANCE_MS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR")
	assert.Contains(t, err.Error(), "DB_PATH")
	assert.Contains(t, err.Error(), "QUESTION_SECONDS")
}

func TestValidateAcceptsLowercaseLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"
	assert.NoError(t, cfg.Validate())
}
