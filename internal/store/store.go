// Package store keeps game sessions in memory, keyed by uuid, with a
// sliding expiry.
package store

import (
	"context"
	"sync"
	"time"

	apperrors "finops-arcade/internal/errors"

	"github.com/google/uuid"
)

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = 2 * time.Hour

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is a concurrency-safe session map. Every write refreshes the
// entry's expiry; reads do not.
type Store[T any] struct {
	mu      sync.RWMutex
	kind    string
	entries map[string]*entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// New creates a store. kind names the stored value in NOT_FOUND errors.
func New[T any](kind string, ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[T]{
		kind:    kind,
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create allocates a fresh id, builds the value with it and stores it.
func (s *Store[T]) Create(build func(id string) T) T {
	id := uuid.NewString()
	v := build(id)
	s.Put(id, v)
	return v
}

// Get returns the live value for id.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		var zero T
		return zero, apperrors.NotFound(s.kind, id)
	}
	return e.value, nil
}

// Put stores v under id, replacing any previous value.
func (s *Store[T]) Put(id string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = &entry[T]{value: v, expiresAt: s.now().Add(s.ttl)}
}

// Update runs fn on the current value while holding the write lock, so
// concurrent requests for one session are serialized. When fn fails the
// stored value is left untouched and fn's error is returned.
func (s *Store[T]) Update(id string, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		return zero, apperrors.NotFound(s.kind, id)
	}
	next, err := fn(e.value)
	if err != nil {
		return zero, err
	}
	e.value = next
	e.expiresAt = s.now().Add(s.ttl)
	return next, nil
}

// Delete removes id and reports whether it was present.
func (s *Store[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[id]
	delete(s.entries, id)
	return ok
}

// Len counts stored entries, expired ones included until the next sweep.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
