package redis

import "fmt"

// Default key prefix for all game-related data
const defaultKeyPrefix = "wordchain"

// dictionaryKey returns the Redis key for the dictionary word set
func dictionaryKey(prefix string) string {
	return fmt.Sprintf("%s:dictionary", prefix)
}

// dictionaryInfoKey returns the Redis key for the dictionary metadata blob
func dictionaryInfoKey(prefix string) string {
	return fmt.Sprintf("%s:dictionary:info", prefix)
}
