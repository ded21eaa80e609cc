package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/RPasch/OCR-tool/internal/pipeline"
)

// Store holds per-session pipeline outcomes. Each session owns exactly
// one slot: the next action overwrites it, and idle entries expire with
// the TTL. Nothing is persisted and nothing is shared across sessions.
type Store struct {
	lru *expirable.LRU[string, *pipeline.Outcome]
}

// NewStore builds a store with the given capacity and idle TTL.
func NewStore(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = 1024
	}
	return &Store{lru: expirable.NewLRU[string, *pipeline.Outcome](size, nil, ttl)}
}

// NewSessionID mints an opaque session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// Put stores the outcome for a session, replacing any previous one.
func (s *Store) Put(sessionID string, out *pipeline.Outcome) {
	s.lru.Add(sessionID, out)
}

// Get returns the session's last outcome, if it has not expired.
func (s *Store) Get(sessionID string) (*pipeline.Outcome, bool) {
	return s.lru.Get(sessionID)
}
