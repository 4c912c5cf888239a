package service

import (
	"context"

	"github.com/google/uuid"

	"mentorgate/internal/verification/models"
	dErrors "mentorgate/pkg/domain-errors"
)

// Status projects the subject's current verification state. A subject
// that never attempted verification reads as a pending record with no
// evidence attached.
func (s *Service) Status(ctx context.Context, subjectID uuid.UUID) (*models.VerificationRecord, error) {
	rec, err := s.records.Find(ctx, subjectID)
	if err != nil {
		if isNotFound(err) {
			return &models.VerificationRecord{
				SubjectID: subjectID,
				Status:    models.StatusPending,
			}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not load verification record")
	}
	return rec, nil
}
