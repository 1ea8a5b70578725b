package commands

import (
	"errors"
	"sync"
	"time"

	"velobook/internal/pkg/clock"
)

var (
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrCooldownActive     = errors.New("submission cooldown active")
)

// SubmitGuard serializes booking submissions per client: a second
// submission while one is in flight is rejected, and a short cooldown
// follows every attempt to absorb duplicate taps.
type SubmitGuard struct {
	mu          sync.Mutex
	clock       clock.Clock
	cooldown    time.Duration
	inFlight    map[string]bool
	lastAttempt map[string]time.Time
}

func NewSubmitGuard(clk clock.Clock, cooldown time.Duration) *SubmitGuard {
	return &SubmitGuard{
		clock:       clk,
		cooldown:    cooldown,
		inFlight:    make(map[string]bool),
		lastAttempt: make(map[string]time.Time),
	}
}

// sweepThreshold bounds the cooldown map: one entry per client would
// otherwise accumulate for the life of the process.
const sweepThreshold = 1024

func (g *SubmitGuard) Acquire(clientID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if g.inFlight[clientID] {
		return ErrSubmissionInFlight
	}
	if last, ok := g.lastAttempt[clientID]; ok {
		if now.Sub(last) < g.cooldown {
			return ErrCooldownActive
		}
		delete(g.lastAttempt, clientID)
	}
	if len(g.lastAttempt) >= sweepThreshold {
		g.sweepLocked(now)
	}
	g.inFlight[clientID] = true
	return nil
}

func (g *SubmitGuard) sweepLocked(now time.Time) {
	for id, last := range g.lastAttempt {
		if now.Sub(last) >= g.cooldown {
			delete(g.lastAttempt, id)
		}
	}
}

// Release ends the in-flight window and starts the cooldown, success
// or failure alike.
func (g *SubmitGuard) Release(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, clientID)
	g.lastAttempt[clientID] = g.clock.Now()
}
