package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	QuestionSeconds  int
	PointsPerCorrect int
	ChoiceAdvanceMS  int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		QuestionSeconds:  envIntOr("QUESTION_SECONDS", 10),
		PointsPerCorrect: envIntOr("POINTS_PER_CORRECT", 10),
		ChoiceAdvanceMS:  envIntOr("CHOICE_ADVANCE_MS", 1000),
	}
}

// Validate reports every configuration problem at once so a bad deployment
// fails with a complete picture instead of one error at a time.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.QuestionSeconds < 1 {
		problems = append(problems, "QUESTION_SECONDS must be at least 1")
	}
	if c.PointsPerCorrect < 1 {
		problems = append(problems, "POINTS_PER_CORRECT must be at least 1")
	}
	if c.ChoiceAdvanceMS < 0 {
		problems = append(problems, "CHOICE_ADVANCE_MS cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
