package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/identity"
	"mentorgate/internal/verification/models"
	dErrors "mentorgate/pkg/domain-errors"
)

// StartIdentityVerification issues an out-of-band confirmation token
// for the subject over the requested channel.
func (s *Service) StartIdentityVerification(ctx context.Context, subjectID uuid.UUID, channel identity.Channel, destination string) error {
	if err := s.identity.Start(ctx, subjectID, channel, destination); err != nil {
		if errors.Is(err, sentinel.ErrInvalidInput) {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid identity verification request")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not start identity verification")
	}
	return nil
}

// ConfirmIdentity redeems a confirmation token and folds the verified
// identity signal into the subject's record.
func (s *Service) ConfirmIdentity(ctx context.Context, subjectID uuid.UUID, token string) (*models.VerificationRecord, error) {
	if err := s.identity.Confirm(ctx, subjectID, token); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "no pending identity confirmation")
		case errors.Is(err, sentinel.ErrExpired):
			return nil, dErrors.New(dErrors.CodeUnauthorized, "confirmation token expired")
		case errors.Is(err, sentinel.ErrMismatch), errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid confirmation token")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not confirm identity")
		}
	}

	key := subjectID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	updated, err := s.refreshRecord(ctx, subjectID, func(rec *models.VerificationRecord) {
		rec.IdentityVerified = true
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "identity verified",
		"subject_id", subjectID,
		"status", string(updated.Status),
	)
	return updated, nil
}
