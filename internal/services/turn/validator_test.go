package turn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordchain-go/internal/model"
)

type fakeDictionary map[string]struct{}

func (d fakeDictionary) Contains(word string) bool {
	_, ok := d[word]
	return ok
}

func newDictionary(words ...string) fakeDictionary {
	d := make(fakeDictionary)
	for _, w := range words {
		d[w] = struct{}{}
	}
	return d
}

type ValidatorSuite struct {
	suite.Suite
	validator *Validator
	alice     *model.Player
	bob       *model.Player
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.validator = NewValidator(newDictionary("cat", "tiger", "rat", "dog", "tar", "élan", "noé"))
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.alice = model.NewPlayer("a", "alice", now)
	s.bob = model.NewPlayer("b", "bob", now)
}

func (s *ValidatorSuite) TestFirstWordOnlyNeedsDictionary() {
	v := s.validator.Evaluate("cat", s.alice, s.bob)
	s.True(v.Valid)
	s.Equal(ReasonNone, v.Reason)
	s.Empty(v.PlayerMessage)
}

func (s *ValidatorSuite) TestNotAWord() {
	v := s.validator.Evaluate("xyzzy", s.alice, s.bob)

	s.False(v.Valid)
	s.Equal(ReasonNotAWord, v.Reason)
	s.Equal("xyzzy is not a word! Lose a turn!", v.PlayerMessage)
	s.Equal("alice said xyzzy which is not a word!", v.OpponentMessage)
	s.Equal("alice said xyzzy which is not a word! Your turn!", v.OpponentText(false))
}

func (s *ValidatorSuite) TestWrongLetter() {
	s.alice.LastWord = "cat"

	v := s.validator.Evaluate("dog", s.bob, s.alice)

	s.False(v.Valid)
	s.Equal(ReasonWrongLetter, v.Reason)
	s.Equal("t", v.RequiredLetter)
	s.Equal("dog does not begin with t! Lose a turn!", v.PlayerMessage)
	s.Equal("bob said dog which does not begin with t! Choose a word that starts with t.", v.OpponentMessage)
}

func (s *ValidatorSuite) TestChainContinuityPasses() {
	s.alice.LastWord = "cat"
	s.alice.UsedWords["cat"] = struct{}{}

	v := s.validator.Evaluate("tiger", s.bob, s.alice)
	s.True(v.Valid)
}

func (s *ValidatorSuite) TestChainUsesRunesNotBytes() {
	s.alice.LastWord = "noé"

	s.True(s.validator.Evaluate("élan", s.bob, s.alice).Valid)
}

func (s *ValidatorSuite) TestAlreadyUsedByOpponent() {
	s.alice.LastWord = "rat"
	s.alice.UsedWords["tar"] = struct{}{}
	s.alice.UsedWords["rat"] = struct{}{}

	v := s.validator.Evaluate("tar", s.bob, s.alice)
	s.False(v.Valid)
	s.Equal(ReasonAlreadyUsed, v.Reason)
	s.Equal("tar has already been used! Lose a turn!", v.PlayerMessage)
	s.Equal("bob said tar which has already been used!", v.OpponentMessage)
}

func (s *ValidatorSuite) TestAlreadyUsedBySelf() {
	s.bob.UsedWords["tiger"] = struct{}{}
	s.alice.LastWord = "cat"

	v := s.validator.Evaluate("tiger", s.bob, s.alice)
	s.Equal(ReasonAlreadyUsed, v.Reason)
}

func (s *ValidatorSuite) TestDictionaryCheckedBeforeChain() {
	s.alice.LastWord = "cat"

	v := s.validator.Evaluate("qqq", s.bob, s.alice)
	s.Equal(ReasonNotAWord, v.Reason)
	s.Empty(v.RequiredLetter)
}

func (s *ValidatorSuite) TestChainCheckedBeforeDuplicate() {
	s.alice.LastWord = "cat"
	s.alice.UsedWords["dog"] = struct{}{}

	v := s.validator.Evaluate("dog", s.bob, s.alice)
	s.Equal(ReasonWrongLetter, v.Reason)
}

func (s *ValidatorSuite) TestEvaluateDoesNotMutatePlayers() {
	s.alice.LastWord = "cat"
	s.alice.UsedWords["cat"] = struct{}{}
	before := s.bob.Clone()

	_ = s.validator.Evaluate("dog", s.bob, s.alice)
	_ = s.validator.Evaluate("tiger", s.bob, s.alice)

	s.Equal(before, s.bob)
	s.Equal("cat", s.alice.LastWord)
	s.Len(s.alice.UsedWords, 1)
}

func (s *ValidatorSuite) TestTimedOut() {
	v := TimedOut(s.bob)
	s.False(v.Valid)
	s.Equal(ReasonTimedOut, v.Reason)
	s.Equal("Time is up! Lose a turn!", v.PlayerMessage)
	s.Equal("bob ran out of time! Your turn!", v.OpponentText(false))
	s.Equal("bob ran out of time!", v.OpponentText(true))
}

func (s *ValidatorSuite) TestRequiredLetter() {
	_, ok := RequiredLetter("")
	s.False(ok)

	c, ok := RequiredLetter("tiger")
	s.True(ok)
	s.Equal("r", c)
}
