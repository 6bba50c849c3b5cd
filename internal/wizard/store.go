package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Eursukkul/salon-booking-service/pkg/logging"
)

var ErrSessionNotFound = errors.New("booking session not found")

type session struct {
	wizard   *Wizard
	lastSeen time.Time
}

// Store keeps open wizards keyed by session id. Sessions idle for longer than the
// TTL are closed by Sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logging.OrNop(logger).Named("sessions"),
	}
}

// Add registers w under a fresh id.
func (s *Store) Add(w *Wizard) string {
	id := uuid.NewString()
	s.Put(id, w)
	return id
}

func (s *Store) Put(id string, w *Wizard) {
	s.mu.Lock()
	s.sessions[id] = &session{wizard: w, lastSeen: s.now()}
	s.mu.Unlock()
}

// Get returns the wizard and refreshes its idle deadline.
func (s *Store) Get(id string) (*Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.wizard, nil
}

// Remove drops the session without touching the wizard. Used by the wizard's own close hook.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Close removes the session and closes its wizard, cancelling any pending reset.
func (s *Store) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.wizard.Close()
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes every session idle for longer than the TTL and returns how many were closed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	var expired []*Wizard
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess.wizard)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, w := range expired {
		w.Close()
	}
	if len(expired) > 0 {
		s.logger.Info("expired idle booking sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
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
