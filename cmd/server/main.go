package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/wordchain-go/internal/api"
	"github.com/mcoot/wordchain-go/internal/config"
	"github.com/mcoot/wordchain-go/internal/factory"
	redisstorage "github.com/mcoot/wordchain-go/internal/storage/redis"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to read .env", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg := config.Load()

	logger := config.NewLogger(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	// Build factory config from environment
	factoryCfg := factory.Config{
		DictionaryPath: cfg.Game.DictionaryPath,
		TurnDuration:   cfg.Game.TurnDuration,
		Logger:         logger,
		StorageType:    cfg.Storage.Type,
	}

	// Configure Redis if storage type is redis
	if factoryCfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		redisCfg.KeyPrefix = cfg.Storage.RedisKeyPrefix
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Words cannot be judged without a dictionary
	if err := app.LoadDictionary(context.Background(), cfg.Game.DictionaryPath); err != nil {
		logger.Error("could not load dictionary",
			slog.String("path", cfg.Game.DictionaryPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		Dictionary:       app.DictionaryService,
		Registry:         app.Registry,
		GameController:   app.GameController,
		Hub:              app.Hub,
		WebSocketHandler: app.WebSocketHandler,
		JWTSecret:        []byte(cfg.Auth.JWTSecret),
	})

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, WebSocket handshakes are not authenticated")
	}

	// Create server
	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)
	server.OnShutdown(app.Hub.CloseAll)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Int("dictionary_size", app.DictionaryService.WordCount()),
		slog.Duration("turn_duration", app.GameController.TurnDuration()),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	if err := app.Shutdown(); err != nil {
		logger.Error("failed to release resources", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
