package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/storage"
)

// Service holds the process-wide word set used to validate submissions
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu     sync.RWMutex
	words  map[string]struct{}
	loaded bool
}

// New creates a new dictionary Service
func New(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		logger:  logger.With(slog.String("component", "dictionary")),
		words:   make(map[string]struct{}),
	}
}

// LoadFromStorage loads dictionary words previously cached in storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	if err := s.loadWords(words); err != nil {
		return err
	}

	s.logger.Info("dictionary loaded from storage", slog.Int("words", s.WordCount()))
	return nil
}

// LoadFromFile loads dictionary words from a file (one word per line)
// and caches them in storage for other instances
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open word list: %w", err)
	}
	defer file.Close()

	words, err := readWords(file)
	if err != nil {
		return fmt.Errorf("read word list %s: %w", path, err)
	}
	if len(words) == 0 {
		return fmt.Errorf("word list %s: %w", path, model.ErrDictionaryNotLoaded)
	}

	if err := s.loadWords(words); err != nil {
		return err
	}

	info := storage.DictionaryInfo{Source: path, LoadedAt: s.clock.Now()}
	if err := s.storage.SaveDictionaryWords(ctx, s.snapshot(), info); err != nil {
		return fmt.Errorf("cache word list: %w", err)
	}

	s.logger.Info("dictionary loaded from file",
		slog.String("path", path),
		slog.Int("words", s.WordCount()),
	)
	return nil
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) error {
	return s.loadWords(words)
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func (s *Service) loadWords(words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.words = make(map[string]struct{}, len(words))
	for _, word := range words {
		// Store lowercase for case-insensitive matching
		s.words[strings.ToLower(strings.TrimSpace(word))] = struct{}{}
	}
	delete(s.words, "")
	s.loaded = true
	return nil
}

func (s *Service) snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	return out
}

// Contains reports whether an already-normalized word is in the dictionary
func (s *Service) Contains(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}

	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// IsLoaded returns whether the dictionary has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of words in the dictionary
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// ServiceInterface is the read side consumed by the turn validator
type ServiceInterface interface {
	Contains(word string) bool
	IsLoaded() bool
	WordCount() int
}

var _ ServiceInterface = (*Service)(nil)
