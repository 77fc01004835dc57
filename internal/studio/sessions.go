package studio

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Sessions keeps builder sessions in memory. A session expires after ttl
// without access.
type Sessions struct {
	items *cache.Cache
	delay time.Duration
}

// NewSessions returns an empty store. delay is passed to every new session
// as its simulated generation time.
func NewSessions(ttl, delay time.Duration) *Sessions {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Sessions{items: cache.New(ttl, cleanup), delay: delay}
}

// Create starts and stores a new session.
func (s *Sessions) Create() *Session {
	sess := NewSession(s.delay)
	s.items.Set(sess.ID(), sess, cache.DefaultExpiration)
	return sess
}

// Get returns session id and extends its lifetime.
func (s *Sessions) Get(id string) (*Session, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess := v.(*Session)
	s.items.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// Delete drops session id. Deleting an unknown id reports ErrSessionNotFound.
func (s *Sessions) Delete(id string) error {
	if _, ok := s.items.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.items.Delete(id)
	return nil
}

// Len returns the number of live sessions, expired-but-unswept included.
func (s *Sessions) Len() int { return s.items.ItemCount() }
