package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetDictionaryWords() {
	words := []string{"apple", "banana", "cherry"}

	err := s.storage.SaveDictionaryWords(s.ctx, words, storage.DictionaryInfo{Source: "test"})
	s.Require().NoError(err)

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal(words, retrieved)
}

func (s *StorageSuite) TestGetDictionaryWordsNotLoaded() {
	_, err := s.storage.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)

	_, err = s.storage.GetDictionaryInfo(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)

	_, err = s.storage.HasDictionaryWord(s.ctx, "apple")
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *StorageSuite) TestReturnedWordsAreACopy() {
	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"apple"}, storage.DictionaryInfo{})

	retrieved, _ := s.storage.GetDictionaryWords(s.ctx)
	retrieved[0] = "mutated"

	again, _ := s.storage.GetDictionaryWords(s.ctx)
	s.Equal("apple", again[0])
}

func (s *StorageSuite) TestDictionaryInfoCountsDistinctWords() {
	loadedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	err := s.storage.SaveDictionaryWords(s.ctx, []string{"apple", "apple", "pear"}, storage.DictionaryInfo{
		Source:   "data/words.txt",
		LoadedAt: loadedAt,
	})
	s.Require().NoError(err)

	info, err := s.storage.GetDictionaryInfo(s.ctx)
	s.Require().NoError(err)
	s.Equal("data/words.txt", info.Source)
	s.Equal(2, info.WordCount)
	s.True(info.LoadedAt.Equal(loadedAt))
}

func (s *StorageSuite) TestHasDictionaryWord() {
	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"apple", "pear"}, storage.DictionaryInfo{})

	ok, err := s.storage.HasDictionaryWord(s.ctx, "pear")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.storage.HasDictionaryWord(s.ctx, "plum")
	s.Require().NoError(err)
	s.False(ok)
}
