package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/registry"
	"github.com/mcoot/wordchain-go/internal/services/turn"
)

// DefaultTurnDuration is how long a turn holder has to submit
const DefaultTurnDuration = 30 * time.Second

// Controller runs the per-pair turn state machine
type Controller struct {
	registry     *registry.Registry
	validator    *turn.Validator
	clock        clock.Clock
	logger       *slog.Logger
	turnDuration time.Duration

	timers *turnTimers
}

// NewController creates a new game Controller
func NewController(
	registry *registry.Registry,
	validator *turn.Validator,
	clock clock.Clock,
	turnDuration time.Duration,
	logger *slog.Logger,
) *Controller {
	if turnDuration <= 0 {
		turnDuration = DefaultTurnDuration
	}
	return &Controller{
		registry:     registry,
		validator:    validator,
		clock:        clock,
		logger:       logger.With(slog.String("component", "game")),
		turnDuration: turnDuration,
		timers:       newTurnTimers(clock),
	}
}

// SetNotifier sets where the messages of every committed game event are
// delivered. Delivery happens while the registry lock is held.
func (c *Controller) SetNotifier(n Notifier) {
	c.registry.SetSink(n)
}

// TurnDuration returns the per-turn time limit
func (c *Controller) TurnDuration() time.Duration {
	return c.turnDuration
}

// StartTurn hands p the turn with a fresh deadline and arms its timer.
// The caller must hold the registry lock.
func (c *Controller) StartTurn(p *model.Player) {
	p.Turn = model.TurnHeld
	p.TurnSeq++
	p.TurnDeadline = c.clock.Now().Add(c.turnDuration)

	id, seq := p.ConnectionID, p.TurnSeq
	c.timers.arm(id, c.turnDuration, func() {
		c.expire(id, seq)
	})
}

// endTurn clears p's turn and cancels its timer
func (c *Controller) endTurn(p *model.Player) {
	p.Turn = model.TurnWaiting
	p.TurnDeadline = time.Time{}
	c.timers.cancel(p.ConnectionID)
}

// OnSubmit handles a word submitted by the turn holder
func (c *Controller) OnSubmit(ctx context.Context, id model.ConnectionID, rawWord string) ([]model.Message, error) {
	trimmed := strings.TrimSpace(rawWord)
	if trimmed == "" {
		return nil, model.ErrEmptyWord
	}
	word := strings.ToLower(trimmed)

	var msgs []model.Message
	err := c.registry.Update(func(tx *registry.Tx) error {
		player, opponent, ok := c.pair(ctx, tx, id, "submit")
		if !ok {
			return nil
		}

		if !player.HasTurn() {
			c.logger.WarnContext(ctx, "protocol violation: submit without turn",
				slog.String("connection_id", string(id)),
			)
			return nil
		}

		now := c.clock.Now()
		if !player.TurnDeadline.IsZero() && !now.Before(player.TurnDeadline) {
			c.logger.DebugContext(ctx, "submit arrived after deadline",
				slog.String("connection_id", string(id)),
				slog.Time("deadline", player.TurnDeadline),
			)
			return nil
		}

		verdict := c.validator.Evaluate(word, player, opponent)
		if !verdict.Valid {
			msgs = c.reject(ctx, player, opponent, verdict)
			tx.Emit(msgs...)
			return nil
		}

		player.LastWord = word
		player.UsedWords[word] = struct{}{}
		c.endTurn(player)

		msgs = []model.Message{{
			To:      opponent.ConnectionID,
			Type:    model.MessageWordAccepted,
			Payload: model.WordAcceptedPayload{Word: trimmed},
		}}
		tx.Emit(msgs...)
		c.StartTurn(opponent)

		c.logger.InfoContext(ctx, "word accepted",
			slog.String("connection_id", string(id)),
			slog.String("word", word),
		)
		return nil
	})
	return msgs, err
}

// OnTimeout handles a client reporting that its turn timer ran out.
// It is honoured only once the server-side deadline has actually passed.
func (c *Controller) OnTimeout(ctx context.Context, id model.ConnectionID) []model.Message {
	var msgs []model.Message
	_ = c.registry.Update(func(tx *registry.Tx) error {
		player, opponent, ok := c.pair(ctx, tx, id, "timeout")
		if !ok {
			return nil
		}

		if !player.HasTurn() || player.TurnDeadline.IsZero() || c.clock.Now().Before(player.TurnDeadline) {
			c.logger.DebugContext(ctx, "timeout ignored: deadline not reached",
				slog.String("connection_id", string(id)),
			)
			return nil
		}

		msgs = c.reject(ctx, player, opponent, turn.TimedOut(player))
		tx.Emit(msgs...)
		return nil
	})
	return msgs
}

// expire is the server-side deadline callback for a specific turn
func (c *Controller) expire(id model.ConnectionID, seq uint64) {
	ctx := context.Background()

	_ = c.registry.Update(func(tx *registry.Tx) error {
		player, ok := tx.Get(id)
		if !ok || !player.HasTurn() || player.TurnSeq != seq || player.IsFinished() {
			return nil
		}
		opponent, ok := tx.Get(player.OpponentID)
		if !ok {
			return nil
		}

		tx.Emit(c.reject(ctx, player, opponent, turn.TimedOut(player))...)
		return nil
	})
}

// OnDisconnect removes the player and returns its opponent to the waiting pool
func (c *Controller) OnDisconnect(ctx context.Context, id model.ConnectionID) []model.Message {
	var msgs []model.Message
	_ = c.registry.Update(func(tx *registry.Tx) error {
		c.timers.cancel(id)

		opponentID, removed := tx.Remove(id)
		if !removed {
			c.logger.DebugContext(ctx, "disconnect for unknown connection",
				slog.String("connection_id", string(id)),
			)
			return nil
		}
		if opponentID == "" {
			return nil
		}

		c.timers.cancel(opponentID)
		msgs = []model.Message{model.NewOpponentLeft(opponentID)}
		tx.Emit(msgs...)

		c.logger.InfoContext(ctx, "opponent left match",
			slog.String("connection_id", string(id)),
			slog.String("opponent_id", string(opponentID)),
		)
		return nil
	})
	return msgs
}

// PairState reports the match state from a player's point of view
func (c *Controller) PairState(id model.ConnectionID) (model.PairState, error) {
	var state model.PairState
	err := c.registry.Update(func(tx *registry.Tx) error {
		player, ok := tx.Get(id)
		if !ok {
			return model.ErrPlayerNotFound
		}
		opponent, _ := tx.Get(player.OpponentID)
		state = model.PairStateOf(player, opponent)
		return nil
	})
	return state, err
}

// Shutdown stops all pending turn timers
func (c *Controller) Shutdown() {
	c.timers.stopAll()
}

// pair resolves a live, unfinished match for id, logging why not otherwise
func (c *Controller) pair(ctx context.Context, tx *registry.Tx, id model.ConnectionID, event string) (*model.Player, *model.Player, bool) {
	player, ok := tx.Get(id)
	if !ok {
		c.logger.DebugContext(ctx, "event for unknown connection",
			slog.String("connection_id", string(id)),
			slog.String("event", event),
		)
		return nil, nil, false
	}

	if !player.IsMatched() || player.IsFinished() {
		c.logger.WarnContext(ctx, "protocol violation: no active match",
			slog.String("connection_id", string(id)),
			slog.String("event", event),
		)
		return nil, nil, false
	}

	opponent, ok := tx.Get(player.OpponentID)
	if !ok {
		c.logger.WarnContext(ctx, "registry inconsistency: opponent missing",
			slog.String("connection_id", string(id)),
			slog.String("opponent_id", string(player.OpponentID)),
		)
		return nil, nil, false
	}
	return player, opponent, true
}

// reject applies an invalid verdict: the anchor is carried over, a life is
// lost and the turn passes, or the match ends if no lives remain
func (c *Controller) reject(ctx context.Context, player, opponent *model.Player, verdict turn.Verdict) []model.Message {
	player.LastWord = opponent.LastWord
	player.LivesRemaining--
	c.endTurn(player)

	gameOver := player.LivesRemaining <= 0
	msgs := []model.Message{
		{
			To:   player.ConnectionID,
			Type: model.MessageInvalidSubmission,
			Payload: model.InvalidSubmissionPayload{
				Message:        verdict.PlayerMessage,
				Reason:         string(verdict.Reason),
				IsYourTurn:     false,
				LivesRemaining: player.LivesRemaining,
			},
		},
		{
			To:   opponent.ConnectionID,
			Type: model.MessageInvalidSubmission,
			Payload: model.InvalidSubmissionPayload{
				Message:        verdict.OpponentText(gameOver),
				Reason:         string(verdict.Reason),
				IsYourTurn:     !gameOver,
				LivesRemaining: opponent.LivesRemaining,
			},
		},
	}

	c.logger.InfoContext(ctx, "turn rejected",
		slog.String("connection_id", string(player.ConnectionID)),
		slog.String("reason", string(verdict.Reason)),
		slog.Int("lives_remaining", player.LivesRemaining),
	)

	if !gameOver {
		c.StartTurn(opponent)
		return msgs
	}

	player.LivesRemaining = 0
	player.Outcome = model.OutcomeLost
	opponent.Outcome = model.OutcomeWon
	c.endTurn(opponent)

	msgs = append(msgs,
		model.Message{
			To:   player.ConnectionID,
			Type: model.MessageMatchEnded,
			Payload: model.MatchEndedPayload{
				Message: fmt.Sprintf("GAME OVER! %s HAS WON!", opponent.DisplayName),
				Won:     false,
			},
		},
		model.Message{
			To:   opponent.ConnectionID,
			Type: model.MessageMatchEnded,
			Payload: model.MatchEndedPayload{
				Message: fmt.Sprintf("CONGRATULATIONS! YOU HAVE DEFEATED %s IN A GAME OF WORD CHAIN!", player.DisplayName),
				Won:     true,
			},
		},
	)

	c.logger.InfoContext(ctx, "match ended",
		slog.String("winner_id", string(opponent.ConnectionID)),
		slog.String("loser_id", string(player.ConnectionID)),
	)
	return msgs
}

// ControllerInterface defines the operations the transport layer drives
type ControllerInterface interface {
	OnSubmit(ctx context.Context, id model.ConnectionID, rawWord string) ([]model.Message, error)
	OnTimeout(ctx context.Context, id model.ConnectionID) []model.Message
	OnDisconnect(ctx context.Context, id model.ConnectionID) []model.Message
	PairState(id model.ConnectionID) (model.PairState, error)
}

var _ ControllerInterface = (*Controller)(nil)
