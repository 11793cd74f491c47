package model

// PairPhase is the coarse state of a player's match
type PairPhase string

const (
	PhaseWaitingForMatch PairPhase = "waiting_for_match"
	PhaseAwaitingMove    PairPhase = "awaiting_move"
	PhaseGameOver        PairPhase = "game_over"
)

// PairState describes a match from one player's point of view
type PairState struct {
	Phase      PairPhase
	TurnHolder ConnectionID // Set in PhaseAwaitingMove
	Winner     ConnectionID // Set in PhaseGameOver
}

// PairStateOf derives the state of a matched pair from both players
func PairStateOf(p, opp *Player) PairState {
	if p == nil || opp == nil || !p.IsMatched() {
		return PairState{Phase: PhaseWaitingForMatch}
	}

	if p.IsFinished() {
		winner := p.ConnectionID
		if p.Outcome == OutcomeLost {
			winner = opp.ConnectionID
		}
		return PairState{Phase: PhaseGameOver, Winner: winner}
	}

	holder := opp.ConnectionID
	if p.HasTurn() {
		holder = p.ConnectionID
	}
	return PairState{Phase: PhaseAwaitingMove, TurnHolder: holder}
}

// Stats is a snapshot of registry population
type Stats struct {
	Connected int
	Waiting   int
	Matched   int
	Finished  int
}
