package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSaveAndGetDictionaryWords() {
	words := []string{"apple", "banana", "cherry"}

	err := s.storage.SaveDictionaryWords(s.ctx, words, storage.DictionaryInfo{Source: "test"})
	s.Require().NoError(err)

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch(words, retrieved) // Order may differ (SET)
}

func (s *StorageSuite) TestGetDictionaryWordsNotLoaded() {
	_, err := s.storage.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *StorageSuite) TestSaveDictionaryWordsReplacesExisting() {
	words1 := []string{"apple", "banana"}
	words2 := []string{"cherry", "date", "elderberry"}

	_ = s.storage.SaveDictionaryWords(s.ctx, words1, storage.DictionaryInfo{})
	_ = s.storage.SaveDictionaryWords(s.ctx, words2, storage.DictionaryInfo{})

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch(words2, retrieved)
}

func (s *StorageSuite) TestDictionaryNoTTL() {
	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"apple"}, storage.DictionaryInfo{})

	s.Equal(time.Duration(0), s.mini.TTL(dictionaryKey(defaultKeyPrefix)), "Dictionary should not have TTL")
	s.Equal(time.Duration(0), s.mini.TTL(dictionaryInfoKey(defaultKeyPrefix)))
}

func (s *StorageSuite) TestDictionaryInfoRoundTrip() {
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

func (s *StorageSuite) TestGetDictionaryInfoNotLoaded() {
	_, err := s.storage.GetDictionaryInfo(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *StorageSuite) TestHasDictionaryWord() {
	_, err := s.storage.HasDictionaryWord(s.ctx, "apple")
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)

	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"apple", "pear"}, storage.DictionaryInfo{})

	ok, err := s.storage.HasDictionaryWord(s.ctx, "pear")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.storage.HasDictionaryWord(s.ctx, "plum")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StorageSuite) TestKeyPrefixIsolatesDeployments() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = "staging"
	other := NewWithClient(client, cfg)
	defer func() { _ = other.Close() }()

	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"apple"}, storage.DictionaryInfo{})

	_, err := other.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
	s.False(s.mini.Exists("staging:dictionary"))
	s.True(s.mini.Exists("wordchain:dictionary"))
}

func (s *StorageSuite) TestNewConnectsThroughURL() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()
	cfg.PingTimeout = time.Second

	store, err := New(cfg)
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.SaveDictionaryWords(s.ctx, []string{"kiwi"}, storage.DictionaryInfo{}))
	ok, err := store.HasDictionaryWord(s.ctx, "kiwi")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not a url"

	_, err := New(cfg)
	s.Error(err)
}
