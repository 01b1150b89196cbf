package mem

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"coursepick/internal/models/session_models"
)

// FormSessionStore keeps form sessions between requests and guards against a second
// submission while one is still in flight.
type FormSessionStore interface {
	// Get returns nil (and no error) when the session is missing or expired.
	Get(ctx context.Context, id string) (*session_models.FormSession, error)
	Set(ctx context.Context, sess *session_models.FormSession, ttl time.Duration) error
	// Delete drops the session. A held loading flag stays until released or expired.
	Delete(ctx context.Context, id string) error

	// AcquireSubmit sets the loading flag for id. It reports false when the flag is
	// already held. The flag expires after ttl even if never released.
	AcquireSubmit(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseSubmit(ctx context.Context, id string) error
	Submitting(ctx context.Context, id string) (bool, error)
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// FormSessions is the in-process store. Sessions are kept JSON-encoded so callers never
// share slices with the stored copy.
type FormSessions struct {
	mu       sync.RWMutex
	data     map[string]entry
	inflight map[string]time.Time
	now      func() time.Time
}

func NewFormSessions() *FormSessions {
	return &FormSessions{
		data:     make(map[string]entry),
		inflight: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *FormSessions) Get(_ context.Context, id string) (*session_models.FormSession, error) {
	s.mu.RLock()
	e, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, id) // cleanup expired
		s.mu.Unlock()
		return nil, nil
	}

	var sess session_models.FormSession
	if err := json.Unmarshal(e.data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *FormSessions) Set(_ context.Context, sess *session_models.FormSession, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = entry{data: b, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *FormSessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *FormSessions) AcquireSubmit(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp, ok := s.inflight[id]; ok && s.now().Before(exp) {
		return false, nil
	}
	s.inflight[id] = s.now().Add(ttl)
	return true, nil
}

func (s *FormSessions) ReleaseSubmit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
	return nil
}

func (s *FormSessions) Submitting(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.inflight[id]
	return ok && s.now().Before(exp), nil
}

// Sweep drops expired sessions and stale loading flags.
func (s *FormSessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, id)
			removed++
		}
	}
	for id, exp := range s.inflight {
		if now.After(exp) {
			delete(s.inflight, id)
		}
	}
	return removed
}
