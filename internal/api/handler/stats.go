package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordchain-go/internal/api/apierr"
	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/model"
)

// StatsSource provides population counts
type StatsSource interface {
	Stats() model.Stats
}

// ConnectionCounter reports open transport connections
type ConnectionCounter interface {
	ClientCount() int
}

// PairStater reports the match state for a connection
type PairStater interface {
	PairState(id model.ConnectionID) (model.PairState, error)
}

// StatsHandler exposes registry state for operators
type StatsHandler struct {
	registry    StatsSource
	connections ConnectionCounter
	pairs       PairStater
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(registry StatsSource, connections ConnectionCounter, pairs PairStater) *StatsHandler {
	return &StatsHandler{
		registry:    registry,
		connections: connections,
		pairs:       pairs,
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats := h.registry.Stats()
	response.JSON(w, http.StatusOK, response.StatsResponse{
		Connections: h.connections.ClientCount(),
		Players:     stats.Connected,
		Waiting:     stats.Waiting,
		Matched:     stats.Matched,
		Finished:    stats.Finished,
	})
}

// GetConnection handles GET /api/v1/connections/{id}
func (h *StatsHandler) GetConnection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("connection id is required"))
		return
	}

	state, err := h.pairs.PairState(model.ConnectionID(id))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewPairStateResponse(id, state))
}
