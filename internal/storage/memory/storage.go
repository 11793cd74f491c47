package memory

import (
	"context"
	"sync"

	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	dictionaryWords []string
	dictionarySet   map[string]struct{}
	dictionaryInfo  *storage.DictionaryInfo
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionaryWords == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	result := make([]string, len(s.dictionaryWords))
	copy(result, s.dictionaryWords)
	return result, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string, info storage.DictionaryInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaryWords = make([]string, len(words))
	copy(s.dictionaryWords, words)
	s.dictionarySet = make(map[string]struct{}, len(words))
	for _, w := range words {
		s.dictionarySet[w] = struct{}{}
	}
	info.WordCount = len(s.dictionarySet)
	s.dictionaryInfo = &info
	return nil
}

func (s *Storage) GetDictionaryInfo(ctx context.Context) (*storage.DictionaryInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionaryInfo == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	info := *s.dictionaryInfo
	return &info, nil
}

func (s *Storage) HasDictionaryWord(ctx context.Context, word string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionarySet == nil {
		return false, model.ErrDictionaryNotLoaded
	}
	_, ok := s.dictionarySet[word]
	return ok, nil
}
