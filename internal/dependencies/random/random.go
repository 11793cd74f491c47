package random

import (
	"crypto/rand"
)

// Random decides who opens a match; it can be mocked for testing
type Random interface {
	// FlipCoin returns true or false with equal probability
	FlipCoin() bool
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// FlipCoin returns a fair coin toss from the low bit of a random byte
func (r *CryptoRandom) FlipCoin() bool {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read does not fail on supported platforms
		return true
	}
	return b[0]&1 == 1
}
