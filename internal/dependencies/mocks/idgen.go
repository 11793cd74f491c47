package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/wordchain-go/internal/dependencies/idgen"
)

// SequentialIDs is a deterministic Generator issuing conn-1, conn-2, ...
type SequentialIDs struct {
	mu   sync.Mutex
	next int
}

var _ idgen.Generator = (*SequentialIDs)(nil)

// NewSequentialIDs creates a generator starting at conn-1
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("conn-%d", g.next)
}
