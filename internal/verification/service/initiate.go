package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/models"
	"mentorgate/internal/verification/requirements"
	"mentorgate/internal/verification/tracer"
	dErrors "mentorgate/pkg/domain-errors"
	"mentorgate/pkg/secrets"
)

// InitiateResult is the outcome of a challenge initiation. When the
// gate fails, Code is empty and Gate itemizes the shortfalls.
type InitiateResult struct {
	Gate      models.GateResult
	Code      string
	ExpiresAt time.Time
}

// Initiate checks the claimed handle against the minimum requirements
// and, when they pass, issues a fresh challenge session. A subject can
// always re-initiate; the newest session silently replaces the old
// one, so only the newest code can complete.
func (s *Service) Initiate(ctx context.Context, subjectID uuid.UUID, handle string) (*InitiateResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanInitiate,
		tracer.String(tracer.AttrSubjectID, subjectID.String()),
		tracer.String(tracer.AttrHandle, handle),
	)
	var retErr error
	defer func() { span.End(retErr) }()

	handle = strings.TrimSpace(handle)
	if handle == "" {
		retErr = dErrors.New(dErrors.CodeInvalidInput, "github handle is required")
		return nil, retErr
	}

	signals, err := s.signals.Signals(ctx, handle)
	if err != nil {
		if s.metrics != nil {
			s.metrics.SignalFetchErrors.Inc()
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			retErr = dErrors.New(dErrors.CodeNotFound, "github user not found")
			return nil, retErr
		}
		retErr = dErrors.Wrap(err, dErrors.CodeInternal, "could not fetch profile signals")
		return nil, retErr
	}

	gate := requirements.Check(signals, s.cfg.Requirements)
	span.SetAttributes(tracer.Bool(tracer.AttrGatePassed, gate.Passed))
	if !gate.Passed {
		if s.metrics != nil {
			for _, shortfall := range gate.Failing {
				s.metrics.RequirementFailures.WithLabelValues(shortfall.Requirement).Inc()
			}
		}
		s.logger.InfoContext(ctx, "challenge refused by requirements gate",
			"subject_id", subjectID,
			"handle", handle,
			"failing", len(gate.Failing),
		)
		return &InitiateResult{Gate: gate}, nil
	}

	code, err := secrets.GenerateCode(challengeCodeBytes)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	replacing := false
	if _, err := s.challenges.Find(ctx, subjectID); err == nil {
		replacing = true
	}

	now := s.now()
	session := &models.ChallengeSession{
		SubjectID:     subjectID,
		ClaimedHandle: handle,
		Code:          code,
		IssuedAt:      now,
		ExpiresAt:     now.Add(s.cfg.ChallengeTTL),
	}
	if err := s.challenges.Save(ctx, session); err != nil {
		retErr = dErrors.Wrap(err, dErrors.CodeInternal, "could not save challenge session")
		return nil, retErr
	}

	if s.metrics != nil {
		s.metrics.ChallengesIssued.Inc()
	}
	s.logger.InfoContext(ctx, "challenge issued",
		"subject_id", subjectID,
		"handle", handle,
		"replacing", replacing,
		"expires_at", session.ExpiresAt,
	)

	return &InitiateResult{
		Gate:      gate,
		Code:      code,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
