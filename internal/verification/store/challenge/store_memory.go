package challenge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/models"
)

// MemoryStore keeps challenge sessions in process memory. Lapsed
// sessions are dropped lazily on Find; StartCleanup adds a periodic
// sweep so abandoned sessions do not accumulate.
type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	sessions map[uuid.UUID]*models.ChallengeSession
	stop     chan struct{}
	stopOnce sync.Once
}

// MemoryOption configures the in-memory store.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the clock used for lazy expiry, so issuance
// and expiry share one clock.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		now:      time.Now,
		sessions: make(map[uuid.UUID]*models.ChallengeSession),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Save(_ context.Context, session *models.ChallengeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.SubjectID] = &cp
	return nil
}

func (s *MemoryStore) Find(_ context.Context, subjectID uuid.UUID) (*models.ChallengeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[subjectID]
	if !ok {
		return nil, fmt.Errorf("challenge session: %w", sentinel.ErrNotFound)
	}
	if session.Expired(s.now()) {
		delete(s.sessions, subjectID)
		return nil, fmt.Errorf("challenge session: %w", sentinel.ErrExpired)
	}
	cp := *session
	return &cp, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.sweep(s.now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

func (s *MemoryStore) Invalidate(_ context.Context, subjectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, subjectID)
	return nil
}

// StartCleanup launches a background sweep that removes lapsed
// sessions every interval. Call Stop to terminate it.
func (s *MemoryStore) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(s.now())
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for subjectID, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, subjectID)
			removed++
		}
	}
	return removed
}
