// Package challenge persists active challenge sessions. Sessions are
// keyed by subject; issuing a new session for a subject replaces any
// session already outstanding, so only the newest code can complete.
package challenge

import (
	"context"

	"github.com/google/uuid"

	"mentorgate/internal/verification/models"
)

// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound (wrapped) when no session exists for the subject
// - Return sentinel.ErrExpired (wrapped) when the session exists but has lapsed
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
type Store interface {
	Save(ctx context.Context, session *models.ChallengeSession) error
	Find(ctx context.Context, subjectID uuid.UUID) (*models.ChallengeSession, error)
	Invalidate(ctx context.Context, subjectID uuid.UUID) error

	// Count reports the number of live sessions. Lapsed sessions are
	// excluded regardless of whether eviction has caught up with them.
	Count(ctx context.Context) (int, error)
}
