package turn

import (
	"fmt"
	"unicode/utf8"

	"github.com/mcoot/wordchain-go/internal/model"
)

// Reason explains why a turn was rejected
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonNotAWord    Reason = "not_a_word"
	ReasonWrongLetter Reason = "wrong_letter"
	ReasonAlreadyUsed Reason = "already_used"
	ReasonTimedOut    Reason = "timed_out"
)

// Verdict is the validator's decision for one turn
type Verdict struct {
	Valid  bool
	Reason Reason

	// RequiredLetter is set for ReasonWrongLetter
	RequiredLetter string

	// PlayerMessage and OpponentMessage are set on invalid verdicts.
	// OpponentMessage omits the turn hand-off suffix; see OpponentText.
	PlayerMessage   string
	OpponentMessage string
}

// OpponentText returns the opponent-facing message, announcing the turn
// hand-off unless the verdict ended the game
func (v Verdict) OpponentText(gameOver bool) string {
	if gameOver {
		return v.OpponentMessage
	}
	return v.OpponentMessage + " Your turn!"
}

// Dictionary is the membership test the validator depends on
type Dictionary interface {
	Contains(word string) bool
}

// Validator decides submissions against the dictionary and both players' state.
// It never mutates players.
type Validator struct {
	dictionary Dictionary
}

// NewValidator creates a Validator backed by the given dictionary
func NewValidator(dictionary Dictionary) *Validator {
	return &Validator{dictionary: dictionary}
}

// Evaluate checks an already-normalized word, stopping at the first failed rule:
// dictionary membership, chain continuity, then reuse by either player
func (v *Validator) Evaluate(word string, player, opponent *model.Player) Verdict {
	if !v.dictionary.Contains(word) {
		return Verdict{
			Reason:          ReasonNotAWord,
			PlayerMessage:   fmt.Sprintf("%s is not a word! Lose a turn!", word),
			OpponentMessage: fmt.Sprintf("%s said %s which is not a word!", player.DisplayName, word),
		}
	}

	if required, ok := RequiredLetter(opponent.LastWord); ok {
		first, _ := utf8.DecodeRuneInString(word)
		if string(first) != required {
			return Verdict{
				Reason:         ReasonWrongLetter,
				RequiredLetter: required,
				PlayerMessage:  fmt.Sprintf("%s does not begin with %s! Lose a turn!", word, required),
				OpponentMessage: fmt.Sprintf("%s said %s which does not begin with %s! Choose a word that starts with %s.",
					player.DisplayName, word, required, required),
			}
		}
	}

	if player.HasUsed(word) || opponent.HasUsed(word) {
		return Verdict{
			Reason:          ReasonAlreadyUsed,
			PlayerMessage:   fmt.Sprintf("%s has already been used! Lose a turn!", word),
			OpponentMessage: fmt.Sprintf("%s said %s which has already been used!", player.DisplayName, word),
		}
	}

	return Verdict{Valid: true}
}

// TimedOut builds the verdict for a turn whose deadline elapsed
func TimedOut(player *model.Player) Verdict {
	return Verdict{
		Reason:          ReasonTimedOut,
		PlayerMessage:   "Time is up! Lose a turn!",
		OpponentMessage: fmt.Sprintf("%s ran out of time!", player.DisplayName),
	}
}

// RequiredLetter returns the final character of an anchor word, or false when
// there is no anchor yet
func RequiredLetter(anchor string) (string, bool) {
	if anchor == "" {
		return "", false
	}
	last, _ := utf8.DecodeLastRuneInString(anchor)
	return string(last), true
}
