package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Word sources
const (
	WordSourceCatalog       = "catalog"
	WordSourceDictionaryAPI = "dictionaryapi"
)

// Server is the server process configuration
type Server struct {
	HTTPHost        string        `env:"SPELLA_HTTP_HOST"`
	HTTPPort        int           `env:"SPELLA_HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SPELLA_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Storage     string `env:"SPELLA_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"SPELLA_REDIS_URL"`
	DatabaseURL string `env:"SPELLA_DATABASE_URL"`
	SQLitePath  string `env:"SPELLA_SQLITE_PATH" envDefault:"spella.db"`

	WordSource        string        `env:"SPELLA_WORD_SOURCE" envDefault:"catalog"`
	WordCatalogPath   string        `env:"SPELLA_WORD_CATALOG_PATH"`
	DictionaryAPIURL  string        `env:"SPELLA_DICTIONARY_API_URL"`
	DictionaryAPIKey  string        `env:"SPELLA_DICTIONARY_API_KEY"`
	ThesaurusAPIKey   string        `env:"SPELLA_THESAURUS_API_KEY"`
	DictionaryTimeout time.Duration `env:"SPELLA_DICTIONARY_TIMEOUT" envDefault:"5s"`

	MaxWordAttempts    int `env:"SPELLA_MAX_WORD_ATTEMPTS" envDefault:"5"`
	MaxConflictRetries int `env:"SPELLA_MAX_CONFLICT_RETRIES" envDefault:"5"`

	LogLevel  string `env:"SPELLA_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SPELLA_LOG_FORMAT" envDefault:"json"`
}

// Load reads the server configuration from the environment and validates it
func Load() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need
func (c Server) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("SPELLA_REDIS_URL required when SPELLA_STORAGE=%s", c.Storage)
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("SPELLA_DATABASE_URL required when SPELLA_STORAGE=%s", c.Storage)
		}
	default:
		return fmt.Errorf("invalid SPELLA_STORAGE %q", c.Storage)
	}

	switch c.WordSource {
	case WordSourceCatalog:
	case WordSourceDictionaryAPI:
		if c.DictionaryAPIKey == "" {
			return fmt.Errorf("SPELLA_DICTIONARY_API_KEY required when SPELLA_WORD_SOURCE=%s", c.WordSource)
		}
	default:
		return fmt.Errorf("invalid SPELLA_WORD_SOURCE %q", c.WordSource)
	}

	if c.MaxWordAttempts < 1 {
		return errors.New("SPELLA_MAX_WORD_ATTEMPTS must be at least 1")
	}
	if c.MaxConflictRetries < 1 {
		return errors.New("SPELLA_MAX_CONFLICT_RETRIES must be at least 1")
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid SPELLA_LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// Addr returns the HTTP listen address
func (c Server) Addr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

// NewLogger builds the process logger writing to w
func (c Server) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.level()
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func (c Server) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid SPELLA_LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
