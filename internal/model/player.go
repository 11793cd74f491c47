package model

import "time"

// MaxLives is the number of rejected turns a player can absorb before losing
const MaxLives = 3

// ConnectionID is the opaque transport-assigned identifier of a player
type ConnectionID string

// MatchStatus tracks whether a player currently has an opponent
type MatchStatus string

const (
	StatusUnmatched MatchStatus = "unmatched" // Waiting for an opponent
	StatusMatched   MatchStatus = "matched"   // Linked to an opponent
)

// TurnState is the tri-state turn flag of a player
type TurnState int

const (
	TurnUnassigned TurnState = iota // No match yet
	TurnHeld                        // Player may submit
	TurnWaiting                     // Opponent holds the turn
)

// Outcome records how a finished match ended for a player
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Player is the per-connection game state owned by the registry
type Player struct {
	ConnectionID ConnectionID
	DisplayName  string
	Status       MatchStatus
	OpponentID   ConnectionID // Empty when unmatched
	Turn         TurnState

	// LastWord is the chain anchor the opponent must extend; empty means none
	LastWord       string
	UsedWords      map[string]struct{}
	LivesRemaining int

	// TurnDeadline is zero unless the player holds the turn
	TurnDeadline time.Time
	// TurnSeq identifies the turn a deadline timer was armed for
	TurnSeq uint64

	Outcome  Outcome
	JoinedAt time.Time
}

// NewPlayer creates an unmatched player with full lives
func NewPlayer(id ConnectionID, displayName string, joinedAt time.Time) *Player {
	return &Player{
		ConnectionID:   id,
		DisplayName:    displayName,
		Status:         StatusUnmatched,
		Turn:           TurnUnassigned,
		UsedWords:      make(map[string]struct{}),
		LivesRemaining: MaxLives,
		JoinedAt:       joinedAt,
	}
}

// IsMatched reports whether the player is linked to an opponent
func (p *Player) IsMatched() bool {
	return p.Status == StatusMatched && p.OpponentID != ""
}

// HasTurn reports whether the player may submit now
func (p *Player) HasTurn() bool {
	return p.Turn == TurnHeld
}

// IsFinished reports whether the player's match has reached game over
func (p *Player) IsFinished() bool {
	return p.Outcome != OutcomeNone
}

// HasUsed reports whether the player already played the word this match
func (p *Player) HasUsed(word string) bool {
	_, ok := p.UsedWords[word]
	return ok
}

// ResetMatch returns the player to the waiting pool with fresh match state
func (p *Player) ResetMatch() {
	p.Status = StatusUnmatched
	p.OpponentID = ""
	p.Turn = TurnUnassigned
	p.LastWord = ""
	p.UsedWords = make(map[string]struct{})
	p.LivesRemaining = MaxLives
	p.TurnDeadline = time.Time{}
	p.Outcome = OutcomeNone
}

// Clone returns a deep copy safe to read outside the registry lock
func (p *Player) Clone() *Player {
	c := *p
	c.UsedWords = make(map[string]struct{}, len(p.UsedWords))
	for w := range p.UsedWords {
		c.UsedWords[w] = struct{}{}
	}
	return &c
}
