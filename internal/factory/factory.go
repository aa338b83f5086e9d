package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/spellgame/internal/api/sse"
	"github.com/mcoot/spellgame/internal/config"
	"github.com/mcoot/spellgame/internal/dependencies/clock"
	"github.com/mcoot/spellgame/internal/dependencies/idgen"
	"github.com/mcoot/spellgame/internal/dependencies/random"
	"github.com/mcoot/spellgame/internal/providers/meeting"
	"github.com/mcoot/spellgame/internal/providers/word"
	"github.com/mcoot/spellgame/internal/services/session"
	"github.com/mcoot/spellgame/internal/storage"
	"github.com/mcoot/spellgame/internal/storage/memory"
	redisstorage "github.com/mcoot/spellgame/internal/storage/redis"
	"github.com/mcoot/spellgame/internal/storage/sqlstore"
)

// Storage type constants
const (
	StorageTypeMemory   = config.StorageMemory
	StorageTypeRedis    = config.StorageRedis
	StorageTypePostgres = config.StoragePostgres
	StorageTypeSQLite   = config.StorageSQLite
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock    clock.Clock
	Random   random.Random
	IDs      idgen.Generator
	Meetings meeting.Provider
	Words    word.Provider

	// Services
	Machine    *session.Machine
	Controller *session.Controller
	HubManager *sse.HubManager

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings (required if StorageType is "postgres" or "sqlite")
	SQLConfig *sqlstore.Config
	// CatalogPath replaces the embedded word list (optional)
	CatalogPath string
	// DictionaryAPI enables dictionary lookups for drawn words (optional)
	DictionaryAPI *word.DictionaryAPIConfig
	// Machine and Controller tune retries. Zero values use the defaults.
	Machine    session.MachineConfig
	Controller session.ControllerConfig
}

// ConfigFromServer translates process configuration into factory configuration
func ConfigFromServer(c config.Server, logger *slog.Logger) Config {
	cfg := Config{
		Logger:      logger,
		StorageType: c.Storage,
		CatalogPath: c.WordCatalogPath,
		Machine:     session.MachineConfig{MaxWordAttempts: c.MaxWordAttempts},
		Controller:  session.ControllerConfig{MaxConflictRetries: c.MaxConflictRetries},
	}

	switch c.Storage {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	case config.StoragePostgres:
		sqlCfg := sqlstore.PostgresConfig(c.DatabaseURL)
		cfg.SQLConfig = &sqlCfg
	case config.StorageSQLite:
		sqlCfg := sqlstore.SQLiteConfig(c.SQLitePath)
		cfg.SQLConfig = &sqlCfg
	}

	if c.WordSource == config.WordSourceDictionaryAPI {
		cfg.DictionaryAPI = &word.DictionaryAPIConfig{
			BaseURL:       c.DictionaryAPIURL,
			DictionaryKey: c.DictionaryAPIKey,
			ThesaurusKey:  c.ThesaurusAPIKey,
			Timeout:       c.DictionaryTimeout,
		}
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	rnd := random.New()
	ids := idgen.New()

	catalog, err := word.NewCatalog(rnd)
	if err != nil {
		closeQuietly(closer)
		return nil, err
	}
	if cfg.CatalogPath != "" {
		if err := catalog.LoadFromFile(cfg.CatalogPath); err != nil {
			closeQuietly(closer)
			return nil, fmt.Errorf("load word catalog: %w", err)
		}
	}

	var words word.Provider = catalog
	if cfg.DictionaryAPI != nil {
		words = word.NewDictionaryAPI(*cfg.DictionaryAPI, catalog, logger)
	}

	app := newWithDependencies(store, clock.New(), rnd, ids, meeting.NewLocal(ids), words, cfg, logger)
	app.closer = closer
	return app, nil
}

func newStorage(cfg Config) (storage.Storage, io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case StorageTypePostgres, StorageTypeSQLite:
		if cfg.SQLConfig == nil {
			return nil, nil, fmt.Errorf("SQLConfig required when StorageType is %s", storageType)
		}
		store, err := sqlstore.Open(*cfg.SQLConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	ids idgen.Generator,
	meetings meeting.Provider,
	words word.Provider,
	cfg Config,
	logger *slog.Logger,
) *App {
	machineCfg := cfg.Machine
	if machineCfg.MaxWordAttempts == 0 {
		machineCfg = session.DefaultMachineConfig()
	}
	controllerCfg := cfg.Controller
	if controllerCfg.MaxConflictRetries == 0 {
		controllerCfg = session.DefaultControllerConfig()
	}

	machine := session.NewMachine(meetings, words, clk, ids, machineCfg, logger)
	controller := session.NewController(store, machine, clk, controllerCfg, logger)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		IDs:        ids,
		Meetings:   meetings,
		Words:      words,
		Machine:    machine,
		Controller: controller,
		HubManager: sse.NewHubManager(logger),
	}
}

// Close releases the storage connection, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
