package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	LogLevel slog.Level

	JournalDriver string // "sqlite" or "memory"
	JournalDBPath string

	MaxNoteLen  int
	MaxTitleLen int

	LLMModel          string
	LLMFallbackModels []string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	LLMTimeout        time.Duration
}

// InterpreterEnabled reports whether the optional LLM interpretation
// feature should be wired at all.
func (c Config) InterpreterEnabled() bool {
	return c.OpenRouterAPIKey != ""
}

func Load() (Config, error) {
	c := Config{
		HTTPAddr:          envOr("HTTP_ADDR", ":8080"),
		JournalDriver:     envOr("JOURNAL_DRIVER", "sqlite"),
		JournalDBPath:     os.Getenv("JOURNAL_DB_PATH"),
		LLMModel:          envOr("LLM_MODEL", "qwen/qwen3-4b:free"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: envOr("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMFallbackModels: parseFallbackModels(os.Getenv("LLM_FALLBACK_MODELS")),
		LLMTimeout:        10 * time.Second,
	}

	if c.JournalDriver != "sqlite" && c.JournalDriver != "memory" {
		return Config{}, fmt.Errorf("invalid JOURNAL_DRIVER %q (want sqlite or memory)", c.JournalDriver)
	}

	if c.JournalDBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		c.JournalDBPath = filepath.Join(home, ".arcana", "journal.db")
	}

	var err error
	if c.MaxNoteLen, err = envInt("MAX_NOTE_LEN", 500); err != nil {
		return Config{}, err
	}
	if c.MaxTitleLen, err = envInt("MAX_TITLE_LEN", 200); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_TIMEOUT %q: %w", v, err)
		}
		c.LLMTimeout = d
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, v)
	}
	return n, nil
}

func parseFallbackModels(s string) []string {
	if s == "" {
		return nil
	}
	var models []string
	for _, m := range strings.Split(s, ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			models = append(models, m)
		}
	}
	return models
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
