// Package authguard tracks failed login attempts and imposes timed lockouts.
package authguard

import (
	"sync"
	"time"

	"github.com/acmebank/ledger/internal/domain"
)

// Defaults matching the bank's lockout policy.
const (
	DefaultMaxFailures  = 3
	DefaultLockDuration = 60 * time.Second
)

// Guard keeps a per-user failed-attempt counter and lock deadline. State
// lives only in memory: a process restart clears all counters and locks.
type Guard struct {
	mu     sync.Mutex
	states map[int32]*state

	maxFailures  int
	lockDuration time.Duration
	now          func() time.Time
}

type state struct {
	failed      int
	lockedUntil time.Time
}

// New returns a guard that locks a user id for lockDuration after
// maxFailures consecutive failed attempts.
func New(maxFailures int, lockDuration time.Duration) *Guard {
	return newGuard(maxFailures, lockDuration, time.Now)
}

func newGuard(maxFailures int, lockDuration time.Duration, now func() time.Time) *Guard {
	return &Guard{
		states:       make(map[int32]*state),
		maxFailures:  maxFailures,
		lockDuration: lockDuration,
		now:          now,
	}
}

// Check rejects the attempt with AccountLockedError while the user is
// locked. An expired lock transitions the user back to unlocked with a
// clean failure count before the attempt proceeds.
func (g *Guard) Check(userID int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.states[userID]
	if !ok || s.lockedUntil.IsZero() {
		return nil
	}

	now := g.now()
	if now.Before(s.lockedUntil) {
		return &domain.AccountLockedError{Remaining: s.lockedUntil.Sub(now)}
	}

	*s = state{}

	return nil
}

// Fail records a failed attempt. Reaching the failure threshold imposes the
// lock and resets the counter to zero.
func (g *Guard) Fail(userID int32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.states[userID]
	if !ok {
		s = &state{}
		g.states[userID] = s
	}

	s.failed++

	if s.failed >= g.maxFailures {
		s.failed = 0
		s.lockedUntil = g.now().Add(g.lockDuration)
	}
}

// Reset clears the user's failure count after a successful login.
func (g *Guard) Reset(userID int32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.states, userID)
}
