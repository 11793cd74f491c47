package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/dependencies/idgen"
	"github.com/mcoot/wordchain-go/internal/dependencies/random"
	"github.com/mcoot/wordchain-go/internal/services/dictionary"
	"github.com/mcoot/wordchain-go/internal/services/game"
	"github.com/mcoot/wordchain-go/internal/services/matchmaker"
	"github.com/mcoot/wordchain-go/internal/services/registry"
	"github.com/mcoot/wordchain-go/internal/services/turn"
	"github.com/mcoot/wordchain-go/internal/storage"
	"github.com/mcoot/wordchain-go/internal/storage/memory"
	redisstorage "github.com/mcoot/wordchain-go/internal/storage/redis"
	"github.com/mcoot/wordchain-go/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    idgen.Generator

	// Services
	DictionaryService *dictionary.Service
	Registry          *registry.Registry
	Validator         *turn.Validator
	GameController    *game.Controller
	Matchmaker        *matchmaker.Matchmaker

	// Transport
	Hub              *ws.Hub
	WebSocketHandler *ws.Handler

	logger *slog.Logger
	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// DictionaryPath is the word list file loaded by LoadDictionary.
	// If empty, LoadDictionary falls back to the storage cache.
	DictionaryPath string
	// TurnDuration is the per-turn time limit (optional)
	// If zero, game.DefaultTurnDuration is used
	TurnDuration time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
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
	var closer io.Closer
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
		closer = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clock.New(), random.New(), idgen.New(), cfg.TurnDuration, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	ids idgen.Generator,
	turnDuration time.Duration,
	logger *slog.Logger,
) *App {
	dictService := dictionary.New(store, clk, logger)
	reg := registry.New(clk, logger)
	validator := turn.NewValidator(dictService)
	gameController := game.NewController(reg, validator, clk, turnDuration, logger)
	mm := matchmaker.New(reg, gameController, rnd, logger)
	hub := ws.NewHub(mm, gameController, clk, logger)
	gameController.SetNotifier(hub)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		IDs:               ids,
		DictionaryService: dictService,
		Registry:          reg,
		Validator:         validator,
		GameController:    gameController,
		Matchmaker:        mm,
		Hub:               hub,
		WebSocketHandler:  ws.NewHandler(hub, ids, logger),
		logger:            logger,
	}
}

// LoadDictionary loads the word list from path, or from the storage
// cache when path is empty
func (a *App) LoadDictionary(ctx context.Context, path string) error {
	if path == "" {
		return a.DictionaryService.LoadFromStorage(ctx)
	}
	return a.DictionaryService.LoadFromFile(ctx, path)
}

// Shutdown closes every live connection, stops turn timers and
// releases the storage backend
func (a *App) Shutdown() error {
	a.Hub.CloseAll()
	a.GameController.Shutdown()

	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Warn("failed to close storage", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}
