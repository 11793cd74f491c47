package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordchain-go/internal/api/handler"
	"github.com/mcoot/wordchain-go/internal/api/middleware"
	"github.com/mcoot/wordchain-go/internal/services/dictionary"
	"github.com/mcoot/wordchain-go/internal/services/game"
	"github.com/mcoot/wordchain-go/internal/services/registry"
	"github.com/mcoot/wordchain-go/internal/transport/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	Dictionary       *dictionary.Service
	Registry         *registry.Registry
	GameController   *game.Controller
	Hub              *ws.Hub
	WebSocketHandler http.Handler
	JWTSecret        []byte
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	healthHandler := handler.NewHealthHandler(cfg.Dictionary)
	statsHandler := handler.NewStatsHandler(cfg.Registry, cfg.Hub, cfg.GameController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Operator routes
	api.HandleFunc("/stats", statsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/connections/{id}", statsHandler.GetConnection).Methods(http.MethodGet)

	// Game connections authenticate during the handshake
	wsRoutes := r.PathPrefix("/ws").Subrouter()
	wsRoutes.Use(recoveryMiddleware)
	wsRoutes.Use(loggingMiddleware)
	wsRoutes.Use(authMiddleware)
	wsRoutes.Handle("", cfg.WebSocketHandler).Methods(http.MethodGet)

	return r
}
