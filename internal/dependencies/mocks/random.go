package mocks

import (
	"sync"

	"github.com/mcoot/wordchain-go/internal/dependencies/random"
)

// MockRandom returns queued coin flips, defaulting to true once the queue is empty
type MockRandom struct {
	mu sync.Mutex

	coins   []bool
	flipped int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// FlipCoin returns the next queued coin, or true if none remaining
func (r *MockRandom) FlipCoin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flipped++
	if len(r.coins) == 0 {
		return true
	}
	result := r.coins[0]
	r.coins = r.coins[1:]
	return result
}

// QueueCoin adds values to the FlipCoin result queue
func (r *MockRandom) QueueCoin(values ...bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coins = append(r.coins, values...)
}

// Flips returns how many coins have been flipped so far
func (r *MockRandom) Flips() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flipped
}
