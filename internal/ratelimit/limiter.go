// Package ratelimit bounds how many auto-research triggers a planning
// session may consume within a rolling time window.
//
// The limiter is a soft abuse-guard, not a durability-critical ledger:
// entries live in memory only and do not survive a restart. Expiry is
// lazy — every Check call sweeps the whole store — so an entry can sit
// in memory slightly past its TTL, but it is never read as valid past it.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultMaxTriggers is the per-session ceiling on successful
	// auto-research invocations within one TTL window.
	DefaultMaxTriggers = 10

	// DefaultTTL is the window after which a session's counter is
	// forgotten.
	DefaultTTL = 24 * time.Hour
)

// entry tracks one session's usage. The window is anchored to first
// use: createdAt is set once and never reset by Increment.
type entry struct {
	count     int
	createdAt time.Time
}

// Limiter maps session IDs to windowed trigger counters.
// All methods are safe for concurrent use. Construct with New and
// inject where needed — there is no package-level instance.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
}

// New creates a Limiter with the given TTL. A non-positive ttl falls
// back to DefaultTTL.
func New(ttl time.Duration) *Limiter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Limiter{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

// Check reports whether another trigger is allowed for the session.
// It first sweeps expired entries store-wide — every Check call acts
// as a garbage-collection tick — then compares the session's count
// against max. A session with no entry is always allowed.
func (l *Limiter) Check(sessionID string, max int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked()

	e, ok := l.entries[sessionID]
	if !ok {
		return true
	}
	return e.count < max
}

// Increment records one consumed trigger for the session and returns
// the new count. The first call creates the entry and anchors the
// window; later calls bump the count without touching createdAt.
//
// Callers are expected to Check first. Check and Increment are not
// one atomic operation, so two overlapping calls for the same session
// can exceed the ceiling by a small margin — acceptable for a soft
// guard (see Enforce for the fail-closed path).
func (l *Limiter) Increment(sessionID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[sessionID]
	if !ok {
		e = &entry{createdAt: timeNow()}
		l.entries[sessionID] = e
	}
	e.count++
	return e.count
}

// Count returns the session's current count, or 0 if the session has
// no entry or its entry has expired.
func (l *Limiter) Count(sessionID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[sessionID]
	if !ok || l.expiredLocked(e) {
		return 0
	}
	return e.count
}

// Reset deletes the entry for one session. Resetting an absent
// session is a no-op.
func (l *Limiter) Reset(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, sessionID)
}

// ClearAll empties the entire store. Testing utility — production
// call paths should reset individual sessions instead.
func (l *Limiter) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]*entry)
}

// Enforce is the fail-closed variant of Check: it returns a
// *LimitError when the session's budget is exhausted, nil otherwise.
// For callers that want abort-on-limit semantics instead of
// check-then-skip.
func (l *Limiter) Enforce(sessionID string, max int) error {
	if l.Check(sessionID, max) {
		return nil
	}
	return &LimitError{
		SessionID: sessionID,
		Used:      l.Count(sessionID),
		Max:       max,
	}
}

// LimitMessage formats the human-readable guidance shown when a
// session's budget is exhausted.
func (l *Limiter) LimitMessage(sessionID string, max int) string {
	return limitMessage(sessionID, l.Count(sessionID), max)
}

// sweepLocked removes every entry older than the TTL. Caller must
// hold l.mu.
func (l *Limiter) sweepLocked() {
	now := timeNow()
	for id, e := range l.entries {
		if now.Sub(e.createdAt) > l.ttl {
			delete(l.entries, id)
		}
	}
}

// expiredLocked reports whether an entry is past its TTL. Caller must
// hold l.mu.
func (l *Limiter) expiredLocked(e *entry) bool {
	return timeNow().Sub(e.createdAt) > l.ttl
}

// LimitError signals that a session has exhausted its auto-research
// budget. Only Enforce produces it; Check-based callers see a boolean
// and never this error.
type LimitError struct {
	SessionID string
	Used      int
	Max       int
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return limitMessage(e.SessionID, e.Used, e.Max)
}

func limitMessage(sessionID string, used, max int) string {
	return fmt.Sprintf(
		"rate limit exceeded for session %q: %d/%d auto-research triggers used. "+
			"You can proceed with the current confidence level, or start a new "+
			"session to reset the budget.",
		sessionID, used, max,
	)
}
