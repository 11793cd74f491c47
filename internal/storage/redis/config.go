package redis

import "time"

// Config controls how the dictionary cache talks to Redis
type Config struct {
	URL          string // redis://host:port/db
	PoolSize     int
	MinIdleConns int

	// PingTimeout bounds the connectivity check made by New
	PingTimeout time.Duration

	// KeyPrefix namespaces the word set and its metadata hash
	KeyPrefix string
}

func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     4,
		MinIdleConns: 1,
		PingTimeout:  5 * time.Second,
		KeyPrefix:    defaultKeyPrefix,
	}
}
