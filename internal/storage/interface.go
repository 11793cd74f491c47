package storage

import (
	"context"
	"time"
)

// DictionaryInfo describes the word list currently held in storage
type DictionaryInfo struct {
	Source    string    `json:"source"`
	WordCount int       `json:"word_count"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Storage defines the interface for the shared word-list cache.
// Match state is deliberately absent: it lives in the in-process registry.
type Storage interface {
	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string, info DictionaryInfo) error
	GetDictionaryInfo(ctx context.Context) (*DictionaryInfo, error)
	HasDictionaryWord(ctx context.Context, word string) (bool, error)
}
