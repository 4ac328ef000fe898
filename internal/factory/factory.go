package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/playmoney/internal/config"
	"github.com/mcoot/playmoney/internal/dependencies/clock"
	"github.com/mcoot/playmoney/internal/dependencies/ids"
	"github.com/mcoot/playmoney/internal/dependencies/random"
	"github.com/mcoot/playmoney/internal/services/session"
	"github.com/mcoot/playmoney/internal/storage"
	"github.com/mcoot/playmoney/internal/storage/memory"
	redisstorage "github.com/mcoot/playmoney/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageTypeMemory
	StorageTypeRedis  = config.StorageTypeRedis
)

// App contains all wired application components
type App struct {
	// Archive of ended games
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    ids.Generator

	// Live games
	Registry *session.Registry
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the archive backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SessionConfig holds session settings (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
}

// FromServerConfig builds a factory Config from the server's environment settings
func FromServerConfig(cfg config.Config, logger *slog.Logger) Config {
	fc := Config{
		Logger:        logger,
		StorageType:   cfg.StorageType,
		SessionConfig: session.Config{SendBufferSize: cfg.SendBufferSize},
	}
	if cfg.StorageType == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SummaryTTL = cfg.ArchiveTTL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Use default session config if not provided
	sessionCfg := cfg.SessionConfig
	if sessionCfg.SendBufferSize <= 0 {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), ids.New(), sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	idGen ids.Generator,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	registry := session.NewRegistry(store, clk, rnd, idGen, sessionCfg, logger)

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		IDs:      idGen,
		Registry: registry,
	}
}

// Close ends every live game, archiving each, then releases the archive
func (a *App) Close(ctx context.Context) error {
	a.Registry.Close(ctx)
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
