package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/game"
	"github.com/mcoot/wordchain-go/internal/services/matchmaker"
	"github.com/mcoot/wordchain-go/internal/services/registry"
)

// Matchmaker is the join entry point used by connections
type Matchmaker interface {
	SetUpMatch(ctx context.Context, id model.ConnectionID, displayName string) (matchmaker.Outcome, error)
}

// Hub tracks live connections and routes game messages to them
type Hub struct {
	matchmaker Matchmaker
	controller game.ControllerInterface
	clock      clock.Clock
	logger     *slog.Logger

	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client
}

// NewHub creates a new Hub
func NewHub(matchmaker Matchmaker, controller game.ControllerInterface, clk clock.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		matchmaker: matchmaker,
		controller: controller,
		clock:      clk,
		logger:     logger.With(slog.String("component", "ws")),
		clients:    make(map[model.ConnectionID]*Client),
	}
}

// Hub is the registry's delivery sink for every game event
var (
	_ game.Notifier = (*Hub)(nil)
	_ registry.Sink = (*Hub)(nil)
)

// Register adds a client so it can receive messages
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// Unregister removes a client
func (h *Hub) Unregister(id model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// ClientCount returns the number of open connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver sends each message to its addressee, dropping those for closed connections
func (h *Hub) Deliver(msgs []model.Message) {
	now := h.clock.Now()
	for _, msg := range msgs {
		h.mu.RLock()
		c, ok := h.clients[msg.To]
		h.mu.RUnlock()
		if !ok {
			h.logger.Debug("dropping message for closed connection",
				slog.String("connection_id", string(msg.To)),
				slog.String("type", string(msg.Type)),
			)
			continue
		}
		c.Send(FromModel(msg, now))
	}
}

// CloseAll closes every open connection, used during shutdown
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		_ = c.Close()
	}
}

// disconnect runs the game-side cleanup once a connection's read loop ends.
// The opponent_left notice is delivered by the registry sink.
func (h *Hub) disconnect(ctx context.Context, id model.ConnectionID) {
	h.Unregister(id)
	h.controller.OnDisconnect(ctx, id)
}
