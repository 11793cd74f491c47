package registry

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/model"
)

// Sink receives the messages emitted by a committed Update.
// Deliver is called with the registry lock held and must not block.
type Sink interface {
	Deliver(msgs []model.Message)
}

type discardSink struct{}

func (discardSink) Deliver([]model.Message) {}

// Registry owns the authoritative connection-to-player mapping.
// All pair-touching work runs under a single registry-wide lock via Update.
type Registry struct {
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	sink    Sink
	players map[model.ConnectionID]*model.Player
	// order records insertion order and drives the waiting-opponent tie-break
	order []model.ConnectionID
}

// New creates an empty Registry
func New(clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		clock:   clk,
		logger:  logger.With(slog.String("component", "registry")),
		sink:    discardSink{},
		players: make(map[model.ConnectionID]*model.Player),
	}
}

// SetSink sets where emitted messages are delivered
func (r *Registry) SetSink(sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = sink
}

// Tx gives mutable access to players while the registry lock is held.
// Players obtained from a Tx must not be retained after Update returns.
type Tx struct {
	r      *Registry
	outbox []model.Message
}

// Update runs fn with exclusive access to the registry. Messages emitted
// by fn are delivered before the lock is released, so connections observe
// them in the same order as the state changes that produced them.
func (r *Registry) Update(fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &Tx{r: r}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.outbox) > 0 {
		r.sink.Deliver(tx.outbox)
	}
	return nil
}

// Emit queues msgs for delivery when the transaction commits.
// Nothing is delivered if the transaction returns an error.
func (tx *Tx) Emit(msgs ...model.Message) {
	tx.outbox = append(tx.outbox, msgs...)
}

// Create inserts a new unmatched player
func (tx *Tx) Create(id model.ConnectionID, displayName string) (*model.Player, error) {
	r := tx.r
	if _, exists := r.players[id]; exists {
		return nil, model.ErrDuplicateConnection
	}

	player := model.NewPlayer(id, displayName, r.clock.Now())
	r.players[id] = player
	r.order = append(r.order, id)

	r.logger.Debug("player created",
		slog.String("connection_id", string(id)),
		slog.String("display_name", displayName),
	)
	return player, nil
}

// Get returns the live player record, or false if absent
func (tx *Tx) Get(id model.ConnectionID) (*model.Player, bool) {
	p, ok := tx.r.players[id]
	return p, ok
}

// Remove deletes a player and resets its opponent to the waiting pool.
// It returns the former opponent's id (empty if none) and whether the player existed.
func (tx *Tx) Remove(id model.ConnectionID) (model.ConnectionID, bool) {
	r := tx.r
	player, ok := r.players[id]
	if !ok {
		return "", false
	}

	delete(r.players, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}

	opponentID := player.OpponentID
	if opponentID == "" {
		return "", true
	}

	opp, ok := r.players[opponentID]
	if !ok || opp.OpponentID != id {
		r.logger.Warn("registry inconsistency: opponent link not symmetric",
			slog.String("connection_id", string(id)),
			slog.String("opponent_id", string(opponentID)),
		)
		return "", true
	}

	opp.ResetMatch()
	return opponentID, true
}

// FindWaitingOpponent returns the earliest-joined unmatched player other than excluding
func (tx *Tx) FindWaitingOpponent(excluding model.ConnectionID) (model.ConnectionID, bool) {
	for _, id := range tx.r.order {
		if id == excluding {
			continue
		}
		if p := tx.r.players[id]; p != nil && p.Status == model.StatusUnmatched {
			return id, true
		}
	}
	return "", false
}

// CreatePlayer inserts a new unmatched player and returns a copy of it
func (r *Registry) CreatePlayer(id model.ConnectionID, displayName string) (*model.Player, error) {
	var created *model.Player
	err := r.Update(func(tx *Tx) error {
		p, err := tx.Create(id, displayName)
		if err != nil {
			return err
		}
		created = p.Clone()
		return nil
	})
	return created, err
}

// Get returns a copy of the player, or false if the connection is unknown
func (r *Registry) Get(id model.ConnectionID) (*model.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Remove deletes a player; see Tx.Remove
func (r *Registry) Remove(id model.ConnectionID) (model.ConnectionID, bool) {
	var opponentID model.ConnectionID
	var removed bool
	_ = r.Update(func(tx *Tx) error {
		opponentID, removed = tx.Remove(id)
		return nil
	})
	return opponentID, removed
}

// FindWaitingOpponent returns the earliest-joined unmatched player other than excluding
func (r *Registry) FindWaitingOpponent(excluding model.ConnectionID) (model.ConnectionID, bool) {
	var id model.ConnectionID
	var found bool
	_ = r.Update(func(tx *Tx) error {
		id, found = tx.FindWaitingOpponent(excluding)
		return nil
	})
	return id, found
}

// Stats returns population counts for monitoring
func (r *Registry) Stats() model.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := model.Stats{Connected: len(r.players)}
	for _, p := range r.players {
		switch {
		case p.IsFinished():
			stats.Finished++
		case p.IsMatched():
			stats.Matched++
		default:
			stats.Waiting++
		}
	}
	return stats
}
