package matchmaker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/wordchain-go/internal/dependencies/random"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/registry"
)

// TurnStarter gives a player the turn and arms its deadline.
// It is invoked with the registry lock held.
type TurnStarter interface {
	StartTurn(p *model.Player)
}

// Outcome is the result of a join
type Outcome struct {
	Matched    bool
	OpponentID model.ConnectionID
	Messages   []model.Message
}

// Matchmaker pairs newly joined players with whoever has waited longest
type Matchmaker struct {
	registry *registry.Registry
	turns    TurnStarter
	random   random.Random
	logger   *slog.Logger
}

// New creates a new Matchmaker
func New(registry *registry.Registry, turns TurnStarter, random random.Random, logger *slog.Logger) *Matchmaker {
	return &Matchmaker{
		registry: registry,
		turns:    turns,
		random:   random,
		logger:   logger.With(slog.String("component", "matchmaker")),
	}
}

// SetUpMatch registers the player and pairs it with a waiting opponent if one exists
func (m *Matchmaker) SetUpMatch(ctx context.Context, id model.ConnectionID, displayName string) (Outcome, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return Outcome{}, model.ErrEmptyDisplayName
	}

	var outcome Outcome
	err := m.registry.Update(func(tx *registry.Tx) error {
		player, err := tx.Create(id, displayName)
		if err != nil {
			return err
		}

		opponentID, found := tx.FindWaitingOpponent(id)
		if !found {
			outcome.Messages = []model.Message{
				model.NewPendingStatus(id, fmt.Sprintf("Hello %s! Please wait for an opponent to be found...", displayName)),
			}
			tx.Emit(outcome.Messages...)
			m.logger.InfoContext(ctx, "player waiting for opponent",
				slog.String("connection_id", string(id)),
				slog.String("display_name", displayName),
			)
			return nil
		}

		opponent, _ := tx.Get(opponentID)

		player.Status, opponent.Status = model.StatusMatched, model.StatusMatched
		player.OpponentID, opponent.OpponentID = opponent.ConnectionID, player.ConnectionID

		first, second := player, opponent
		if !m.random.FlipCoin() {
			first, second = opponent, player
		}
		second.Turn = model.TurnWaiting
		m.turns.StartTurn(first)

		outcome.Matched = true
		outcome.OpponentID = opponentID
		outcome.Messages = append(matchMessages(player, opponent), matchMessages(opponent, player)...)
		tx.Emit(outcome.Messages...)

		m.logger.InfoContext(ctx, "players matched",
			slog.String("connection_id", string(id)),
			slog.String("opponent_id", string(opponentID)),
			slog.String("first_turn", string(first.ConnectionID)),
		)
		return nil
	})
	if err != nil {
		m.logger.WarnContext(ctx, "join rejected",
			slog.String("connection_id", string(id)),
			slog.String("error", err.Error()),
		)
		return Outcome{}, err
	}
	return outcome, nil
}

// matchMessages builds the pending text and match_found event for p
func matchMessages(p, opponent *model.Player) []model.Message {
	text := fmt.Sprintf("You have been matched with %s. Please wait for your opponent to send the first word!", opponent.DisplayName)
	payload := model.MatchFoundPayload{
		OpponentName:   opponent.DisplayName,
		IsYourTurn:     p.HasTurn(),
		LivesRemaining: p.LivesRemaining,
	}
	if p.HasTurn() {
		text = fmt.Sprintf("You have been matched with %s. Please send the first word!", opponent.DisplayName)
		deadline := p.TurnDeadline
		payload.TurnDeadline = &deadline
	}

	return []model.Message{
		model.NewPendingStatus(p.ConnectionID, text),
		{To: p.ConnectionID, Type: model.MessageMatchFound, Payload: payload},
	}
}
