package ws

import (
	"encoding/json"
	"time"

	"github.com/mcoot/wordchain-go/internal/model"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoin    MessageType = "join"
	MsgSubmit  MessageType = "submit"
	MsgTimeout MessageType = "timeout"
	MsgPing    MessageType = "ping"
)

// Server → Client message types not produced by the game itself
const (
	MsgError MessageType = "error"
	MsgPong  MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a server message stamped with the given time
func NewServerMessage(msgType MessageType, payload any, now time.Time) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// FromModel converts a game message to its wire form
func FromModel(msg model.Message, now time.Time) *ServerMessage {
	return NewServerMessage(MessageType(msg.Type), msg.Payload, now)
}

// Client message payloads

// JoinPayload is the payload for join message
type JoinPayload struct {
	DisplayName string `json:"display_name"`
}

// SubmitPayload is the payload for submit message
type SubmitPayload struct {
	Word string `json:"word"`
}

// Server message payloads

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
