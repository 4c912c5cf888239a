package record

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/models"
)

type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.VerificationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]*models.VerificationRecord)}
}

func (s *MemoryStore) Upsert(_ context.Context, record *models.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records[record.SubjectID] = &cp
	return nil
}

func (s *MemoryStore) Find(_ context.Context, subjectID uuid.UUID) (*models.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[subjectID]
	if !ok {
		return nil, fmt.Errorf("verification record: %w", sentinel.ErrNotFound)
	}
	cp := *record
	return &cp, nil
}
