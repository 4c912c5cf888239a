// Package record persists per-subject verification records. Records
// are upserted on every completion attempt; there is at most one row
// per subject.
package record

import (
	"context"

	"github.com/google/uuid"

	"mentorgate/internal/verification/models"
)

// Error Contract:
// - Find returns sentinel.ErrNotFound (wrapped) when no record exists
// - Upsert never fails because a record already exists
// - Infrastructure failures are returned wrapped with context
type Store interface {
	Upsert(ctx context.Context, record *models.VerificationRecord) error
	Find(ctx context.Context, subjectID uuid.UUID) (*models.VerificationRecord, error)
}
