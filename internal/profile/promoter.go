// Package profile exposes the mentor profile side of the pipeline.
// The verification service promotes a subject to mentor exactly once,
// on the transition into verified status.
package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Promoter marks a subject as an active mentor. Implementations must
// tolerate repeated calls for the same subject.
type Promoter interface {
	Promote(ctx context.Context, subjectID uuid.UUID) error
}

// MemoryPromoter records promotions in process memory. It backs the
// single-instance deployment and tests; a database-backed profile
// service implements Promoter in larger deployments.
type MemoryPromoter struct {
	mu      sync.RWMutex
	mentors map[uuid.UUID]struct{}
}

func NewMemoryPromoter() *MemoryPromoter {
	return &MemoryPromoter{mentors: make(map[uuid.UUID]struct{})}
}

func (p *MemoryPromoter) Promote(_ context.Context, subjectID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mentors[subjectID] = struct{}{}
	return nil
}

// IsMentor reports whether the subject has been promoted.
func (p *MemoryPromoter) IsMentor(subjectID uuid.UUID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.mentors[subjectID]
	return ok
}
