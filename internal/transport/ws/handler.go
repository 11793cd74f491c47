package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/wordchain-go/internal/api/middleware"
	"github.com/mcoot/wordchain-go/internal/dependencies/idgen"
	"github.com/mcoot/wordchain-go/internal/model"
)

// Handler upgrades HTTP requests to game connections
type Handler struct {
	hub      *Hub
	ids      idgen.Generator
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, ids idgen.Generator, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		ids: ids,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ConnectionID(h.ids.NewID())
	client := NewClient(id, conn, h.hub, h.logger)
	h.hub.Register(client)

	attrs := []any{
		slog.String("connection_id", string(id)),
		slog.String("remote_addr", r.RemoteAddr),
	}
	if subject := middleware.GetSubject(r.Context()); subject != "" {
		attrs = append(attrs, slog.String("subject", subject))
	}
	h.logger.Info("websocket connected", attrs...)

	client.Run(context.WithoutCancel(r.Context()))

	h.logger.Info("websocket disconnected", slog.String("connection_id", string(id)))
}
