package response

import "github.com/mcoot/wordchain-go/internal/model"

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status         string `json:"status"`
	DictionarySize int    `json:"dictionary_size"`
}

// StatsResponse reports how many players are in each stage
type StatsResponse struct {
	Connections int `json:"connections"`
	Players     int `json:"players"`
	Waiting     int `json:"waiting"`
	Matched     int `json:"matched"`
	Finished    int `json:"finished"`
}

// PairStateResponse describes one connection's match
type PairStateResponse struct {
	ConnectionID string `json:"connection_id"`
	Phase        string `json:"phase"`
	TurnHolder   string `json:"turn_holder,omitempty"`
	Winner       string `json:"winner,omitempty"`
}

// NewPairStateResponse converts a model.PairState
func NewPairStateResponse(id string, state model.PairState) PairStateResponse {
	return PairStateResponse{
		ConnectionID: id,
		Phase:        string(state.Phase),
		TurnHolder:   string(state.TurnHolder),
		Winner:       string(state.Winner),
	}
}
