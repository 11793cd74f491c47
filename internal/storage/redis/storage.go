package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	key := dictionaryKey(s.cfg.KeyPrefix)

	// Check if dictionary exists
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}

	// Get all words from the set
	words, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	return words, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string, info storage.DictionaryInfo) error {
	key := dictionaryKey(s.cfg.KeyPrefix)

	members := make([]interface{}, len(words))
	distinct := make(map[string]struct{}, len(words))
	for i, w := range words {
		members[i] = w
		distinct[w] = struct{}{}
	}

	info.WordCount = len(distinct)
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}

	// Replace the set and its metadata atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.SAdd(ctx, key, members...)
	}
	pipe.Set(ctx, dictionaryInfoKey(s.cfg.KeyPrefix), data, 0)

	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetDictionaryInfo(ctx context.Context) (*storage.DictionaryInfo, error) {
	data, err := s.client.Get(ctx, dictionaryInfoKey(s.cfg.KeyPrefix)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDictionaryNotLoaded
		}
		return nil, err
	}

	var info storage.DictionaryInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Storage) HasDictionaryWord(ctx context.Context, word string) (bool, error) {
	key := dictionaryKey(s.cfg.KeyPrefix)

	pipe := s.client.Pipeline()
	existsCmd := pipe.Exists(ctx, key)
	memberCmd := pipe.SIsMember(ctx, key, word)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if existsCmd.Val() == 0 {
		return false, model.ErrDictionaryNotLoaded
	}
	return memberCmd.Val(), nil
}
