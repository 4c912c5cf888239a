package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mentorgate/internal/sentinel"
)

// Store persists pending confirmations and the per-subject verified
// flag. One pending confirmation per subject; re-issuing replaces it.
type Store interface {
	SaveConfirmation(ctx context.Context, c *Confirmation) error
	FindConfirmation(ctx context.Context, subjectID uuid.UUID) (*Confirmation, error)
	MarkVerified(ctx context.Context, subjectID uuid.UUID) error
	IsVerified(ctx context.Context, subjectID uuid.UUID) (bool, error)
}

type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	pending  map[uuid.UUID]*Confirmation
	verified map[uuid.UUID]struct{}
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
		pending:  make(map[uuid.UUID]*Confirmation),
		verified: make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) SaveConfirmation(_ context.Context, c *Confirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.pending[c.SubjectID] = &cp
	return nil
}

func (s *MemoryStore) FindConfirmation(_ context.Context, subjectID uuid.UUID) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.pending[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if c.Expired(s.now()) {
		delete(s.pending, subjectID)
		return nil, sentinel.ErrExpired
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) MarkVerified(_ context.Context, subjectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, subjectID)
	s.verified[subjectID] = struct{}{}
	return nil
}

func (s *MemoryStore) IsVerified(_ context.Context, subjectID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.verified[subjectID]
	return ok, nil
}
