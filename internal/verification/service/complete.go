package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/models"
	"mentorgate/internal/verification/requirements"
	"mentorgate/internal/verification/score"
	"mentorgate/internal/verification/tracer"
	dErrors "mentorgate/pkg/domain-errors"
)

// completionEvidence holds the fan-out results. Each goroutine writes
// only to its own fields, so no synchronization beyond Wait is needed.
type completionEvidence struct {
	proof models.OwnershipProof

	signals    models.ProfileSignals
	signalsErr error

	identityVerified bool
}

// Complete runs a completion attempt for the subject's outstanding
// challenge. The attempt always produces and persists a verification
// record; ownership failing to prove is an outcome, not an error. The
// challenge session is consumed only when ownership is proven, so a
// subject can retry until the session lapses.
func (s *Service) Complete(ctx context.Context, subjectID uuid.UUID, handle string) (*models.VerificationRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanComplete,
		tracer.String(tracer.AttrSubjectID, subjectID.String()),
		tracer.String(tracer.AttrHandle, handle),
	)
	var retErr error
	defer func() { span.End(retErr) }()

	start := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.CompleteDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		}
	}()

	// One completion attempt at a time per subject. Unrelated subjects
	// proceed on other shards.
	key := subjectID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	session, err := s.challenges.Find(ctx, subjectID)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrExpired), errors.Is(err, sentinel.ErrNotFound):
			retErr = ErrChallengeExpired
		default:
			retErr = dErrors.Wrap(err, dErrors.CodeInternal, "could not load challenge session")
		}
		return nil, retErr
	}

	if !strings.EqualFold(handle, session.ClaimedHandle) {
		retErr = ErrHandleMismatch
		return nil, retErr
	}

	previous, err := s.previousRecord(ctx, subjectID)
	if err != nil {
		retErr = dErrors.Wrap(err, dErrors.CodeInternal, "could not load verification record")
		return nil, retErr
	}

	evidence := s.gatherEvidence(ctx, subjectID, session)
	span.SetAttributes(
		tracer.Bool(tracer.AttrChannelBio, evidence.proof.Channels.Bio),
		tracer.Bool(tracer.AttrChannelRepo, evidence.proof.Channels.RepoFile),
		tracer.Bool(tracer.AttrChannelGist, evidence.proof.Channels.Gist),
	)
	if s.metrics != nil {
		if evidence.proof.Channels.Bio {
			s.metrics.ChannelMatches.WithLabelValues("bio").Inc()
		}
		if evidence.proof.Channels.RepoFile {
			s.metrics.ChannelMatches.WithLabelValues("repo_file").Inc()
		}
		if evidence.proof.Channels.Gist {
			s.metrics.ChannelMatches.WithLabelValues("gist").Inc()
		}
	}

	// Signals may have drifted since initiation; the gate is applied
	// again so a handle that no longer qualifies cannot verify. A failed
	// signal fetch leaves the gate unevaluated rather than attributing
	// zero-value shortfalls to the profile.
	var gate models.GateResult
	if evidence.signalsErr == nil {
		gate = requirements.Check(evidence.signals, s.cfg.Requirements)
	}
	githubVerified := evidence.proof.Verified && gate.Passed && evidence.signalsErr == nil

	quality := score.Quality(evidence.signals)

	documentsVerified := false
	var documents []models.DocumentVerdict
	if previous != nil {
		documentsVerified = previous.DocumentsVerified
		documents = previous.Documents
	}

	overall := score.Overall(quality, githubVerified, documentsVerified, evidence.identityVerified)
	status := s.resolveStatus(previous, overall)
	span.SetAttributes(
		tracer.Int(tracer.AttrOverallScore, overall),
		tracer.String(tracer.AttrStatus, string(status)),
	)

	now := s.now()
	updated := &models.VerificationRecord{
		SubjectID:      subjectID,
		Status:         status,
		GitHubVerified: githubVerified,
		GitHubData: &models.GitHubData{
			Handle:       session.ClaimedHandle,
			Signals:      evidence.signals,
			QualityScore: quality,
			Channels:     evidence.proof.Channels,
		},
		DocumentsVerified:   documentsVerified,
		Documents:           documents,
		IdentityVerified:    evidence.identityVerified,
		OverallScore:        overall,
		FailingRequirements: gate.Failing,
		VerificationDate:    now,
		UpdatedAt:           now,
	}

	if err := s.persist(ctx, previous, updated); err != nil {
		retErr = dErrors.Wrap(err, dErrors.CodeInternal, "could not persist verification record")
		return nil, retErr
	}
	if updated.Status == models.StatusVerified && (previous == nil || previous.Status != models.StatusVerified) {
		span.AddEvent(tracer.EventPromoted)
	}

	// Proof consumed the session; an unproven attempt keeps it live
	// for retries until it lapses.
	if evidence.proof.Verified {
		if err := s.challenges.Invalidate(ctx, subjectID); err != nil {
			s.logger.WarnContext(ctx, "could not invalidate challenge session",
				"subject_id", subjectID, "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.CompletionAttempts.WithLabelValues(string(status)).Inc()
		s.metrics.OverallScore.Observe(float64(overall))
	}
	s.logger.InfoContext(ctx, "completion attempt recorded",
		"subject_id", subjectID,
		"handle", session.ClaimedHandle,
		"github_verified", githubVerified,
		"overall_score", overall,
		"status", string(status),
	)

	return updated, nil
}

// gatherEvidence fans the channel checks, the signal fetch, and the
// identity lookup out in parallel. Failures are absorbed into neutral
// evidence so one degraded dependency cannot abort the attempt.
func (s *Service) gatherEvidence(ctx context.Context, subjectID uuid.UUID, session *models.ChallengeSession) completionEvidence {
	ctx, cancel := context.WithTimeout(ctx, completeTimeout)
	defer cancel()

	// Plain group: branches absorb their own errors, the group is only
	// a join point.
	var g errgroup.Group
	var evidence completionEvidence

	g.Go(func() error {
		start := time.Now()
		evidence.proof = s.ownership.Verify(ctx, session.ClaimedHandle, session.Code)
		if s.metrics != nil {
			s.metrics.OwnershipDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		}
		return nil
	})

	g.Go(func() error {
		signals, err := s.signals.Signals(ctx, session.ClaimedHandle)
		if err != nil {
			evidence.signalsErr = err
			if s.metrics != nil {
				s.metrics.SignalFetchErrors.Inc()
			}
			s.logger.WarnContext(ctx, "signal fetch failed during completion",
				"subject_id", subjectID, "error", err)
			return nil
		}
		evidence.signals = signals
		return nil
	})

	g.Go(func() error {
		verified, err := s.identity.IsVerified(ctx, subjectID)
		if err != nil {
			s.logger.WarnContext(ctx, "identity lookup failed during completion",
				"subject_id", subjectID, "error", err)
			return nil
		}
		evidence.identityVerified = verified
		return nil
	})

	_ = g.Wait()
	return evidence
}
