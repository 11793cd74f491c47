package model

import "time"

// MessageType identifies an outbound message
type MessageType string

const (
	MessagePendingStatus     MessageType = "pending_status"
	MessageMatchFound        MessageType = "match_found"
	MessageWordAccepted      MessageType = "word_accepted"
	MessageInvalidSubmission MessageType = "invalid_submission"
	MessageMatchEnded        MessageType = "match_ended"
	MessageOpponentLeft      MessageType = "opponent_left"
)

// Message is a single outbound event addressed to exactly one connection
type Message struct {
	To      ConnectionID
	Type    MessageType
	Payload any // Type-specific data
}

// PendingStatusPayload contains a free-form status line
type PendingStatusPayload struct {
	Message string `json:"message"`
}

// MatchFoundPayload tells a player who they are facing and who starts
type MatchFoundPayload struct {
	OpponentName   string     `json:"opponent_name"`
	IsYourTurn     bool       `json:"is_your_turn"`
	LivesRemaining int        `json:"lives_remaining"`
	TurnDeadline   *time.Time `json:"turn_deadline,omitempty"`
}

// WordAcceptedPayload carries the opponent's new chain anchor
type WordAcceptedPayload struct {
	Word string `json:"word"`
}

// InvalidSubmissionPayload explains a rejected turn to one side
type InvalidSubmissionPayload struct {
	Message        string `json:"message"`
	Reason         string `json:"reason"`
	IsYourTurn     bool   `json:"is_your_turn"`
	LivesRemaining int    `json:"lives_remaining"`
}

// MatchEndedPayload announces the end of a match
type MatchEndedPayload struct {
	Message string `json:"message"`
	Won     bool   `json:"won"`
}

// OpponentLeftPayload is sent when the opponent disconnects
type OpponentLeftPayload struct{}

// NewPendingStatus builds a pending_status message
func NewPendingStatus(to ConnectionID, text string) Message {
	return Message{To: to, Type: MessagePendingStatus, Payload: PendingStatusPayload{Message: text}}
}

// NewOpponentLeft builds an opponent_left message
func NewOpponentLeft(to ConnectionID) Message {
	return Message{To: to, Type: MessageOpponentLeft, Payload: OpponentLeftPayload{}}
}

// MessagesFor filters messages addressed to a connection, preserving order
func MessagesFor(msgs []Message, to ConnectionID) []Message {
	var out []Message
	for _, m := range msgs {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}
