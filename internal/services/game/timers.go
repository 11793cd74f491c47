package game

import (
	"sync"
	"time"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/model"
)

// turnTimers holds at most one pending deadline timer per connection
type turnTimers struct {
	clock clock.Clock

	mu     sync.Mutex
	timers map[model.ConnectionID]clock.Timer
}

func newTurnTimers(clk clock.Clock) *turnTimers {
	return &turnTimers{
		clock:  clk,
		timers: make(map[model.ConnectionID]clock.Timer),
	}
}

// arm replaces any pending timer for id with one that calls fire after d
func (t *turnTimers) arm(id model.ConnectionID, d time.Duration, fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.timers[id]; ok {
		existing.Stop()
	}
	t.timers[id] = t.clock.AfterFunc(d, fire)
}

func (t *turnTimers) cancel(id model.ConnectionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.timers[id]; ok {
		existing.Stop()
		delete(t.timers, id)
	}
}

func (t *turnTimers) stopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}

func (t *turnTimers) pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
