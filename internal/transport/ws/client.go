package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/wordchain-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client is one player's WebSocket connection
type Client struct {
	id     model.ConnectionID
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte
	done   chan struct{}
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	joined bool
}

// NewClient creates a new WebSocket client
func NewClient(id model.ConnectionID, conn *websocket.Conn, hub *Hub, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger.With(slog.String("connection_id", string(id))),
	}
}

// ID returns the connection identifier
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// Send queues a message for the write pump
func (c *Client) Send(msg *ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to encode message",
			slog.String("type", string(msg.Type)),
			slog.String("error", err.Error()),
		)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, message dropped", slog.String("type", string(msg.Type)))
	}
}

// Close shuts the connection down; safe to call more than once
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's write pump and blocks in the read pump
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.disconnect(ctx, c.id)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", slog.String("error", err.Error()))
			}
			return
		}

		c.handleMessage(ctx, message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(ctx context.Context, data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoin:
		c.handleJoin(ctx, msg.Payload)
	case MsgSubmit:
		c.handleSubmit(ctx, msg.Payload)
	case MsgTimeout:
		c.hub.controller.OnTimeout(ctx, c.id)
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil, c.hub.clock.Now()))
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoin handles a join message
func (c *Client) handleJoin(ctx context.Context, raw json.RawMessage) {
	var payload JoinPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	if strings.TrimSpace(payload.DisplayName) == "" {
		c.sendError(ErrCodeInvalidMessage, "Display name is required")
		return
	}

	c.mu.Lock()
	alreadyJoined := c.joined
	c.joined = true
	c.mu.Unlock()
	if alreadyJoined {
		c.logger.WarnContext(ctx, "protocol violation: join after joining")
		return
	}

	// Join messages are delivered by the registry as the match is committed
	if _, err := c.hub.matchmaker.SetUpMatch(ctx, c.id, payload.DisplayName); err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateConnection):
			c.logger.WarnContext(ctx, "protocol violation: connection already registered")
		case errors.Is(err, model.ErrEmptyDisplayName):
			c.sendError(ErrCodeInvalidMessage, "Display name is required")
		default:
			c.sendError(ErrCodeInternalError, err.Error())
		}
	}
}

// handleSubmit handles a submit message; empty words never reach the game
func (c *Client) handleSubmit(ctx context.Context, raw json.RawMessage) {
	var payload SubmitPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	if strings.TrimSpace(payload.Word) == "" {
		c.sendError(ErrCodeInvalidMessage, "Word is required")
		return
	}

	if _, err := c.hub.controller.OnSubmit(ctx, c.id, payload.Word); err != nil {
		c.sendError(ErrCodeInvalidMessage, err.Error())
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{Code: code, Message: message}, c.hub.clock.Now()))
}
