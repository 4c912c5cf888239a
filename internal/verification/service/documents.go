package service

import (
	"context"

	"github.com/google/uuid"

	"mentorgate/internal/verification/document"
	"mentorgate/internal/verification/models"
	"mentorgate/internal/verification/score"
	"mentorgate/internal/verification/tracer"
	dErrors "mentorgate/pkg/domain-errors"
)

// SubmitDocuments validates a batch of credential documents and folds
// the verdicts into the subject's record. One valid document marks the
// documents signal verified; verdicts for the whole batch are kept for
// the status projection either way.
func (s *Service) SubmitDocuments(ctx context.Context, subjectID uuid.UUID, submissions []document.Submission) (*models.VerificationRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDocuments,
		tracer.String(tracer.AttrSubjectID, subjectID.String()),
		tracer.Int("documents", len(submissions)),
	)
	var retErr error
	defer func() { span.End(retErr) }()

	if len(submissions) == 0 {
		retErr = dErrors.New(dErrors.CodeInvalidInput, "at least one document is required")
		return nil, retErr
	}

	verified, verdicts := s.documents.ValidateMultiple(ctx, submissions)
	if s.metrics != nil {
		for _, verdict := range verdicts {
			outcome := "rejected"
			if verdict.Verified {
				outcome = "verified"
			}
			s.metrics.DocumentsSubmitted.WithLabelValues(string(verdict.DocumentType), outcome).Inc()
		}
	}

	key := subjectID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	updated, err := s.refreshRecord(ctx, subjectID, func(rec *models.VerificationRecord) {
		rec.Documents = verdicts
		rec.DocumentsVerified = verified
	})
	if err != nil {
		retErr = err
		return nil, retErr
	}

	s.logger.InfoContext(ctx, "documents submitted",
		"subject_id", subjectID,
		"documents", len(verdicts),
		"documents_verified", verified,
		"status", string(updated.Status),
	)
	return updated, nil
}

// refreshRecord applies mutate to the subject's record, recomputes the
// overall score and status from the stored signals, and persists the
// result. Callers must hold the subject's lock.
func (s *Service) refreshRecord(ctx context.Context, subjectID uuid.UUID, mutate func(*models.VerificationRecord)) (*models.VerificationRecord, error) {
	previous, err := s.previousRecord(ctx, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not load verification record")
	}

	updated := &models.VerificationRecord{SubjectID: subjectID, Status: models.StatusPending}
	if previous != nil {
		cp := *previous
		updated = &cp
	}
	mutate(updated)

	quality := 0
	if updated.GitHubData != nil {
		quality = updated.GitHubData.QualityScore
	}
	updated.OverallScore = score.Overall(quality, updated.GitHubVerified, updated.DocumentsVerified, updated.IdentityVerified)
	updated.Status = s.resolveStatus(previous, updated.OverallScore)
	updated.UpdatedAt = s.now()
	if updated.VerificationDate.IsZero() {
		updated.VerificationDate = updated.UpdatedAt
	}

	if err := s.persist(ctx, previous, updated); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist verification record")
	}
	return updated, nil
}
