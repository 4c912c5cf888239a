// Package service orchestrates the trust-verification pipeline: it
// issues ownership challenges, runs completion attempts across the
// proof channels, folds document and identity signals into the overall
// confidence score, and persists the per-subject record.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mentorgate/internal/profile"
	"mentorgate/internal/verification/document"
	"mentorgate/internal/verification/identity"
	"mentorgate/internal/verification/metrics"
	"mentorgate/internal/verification/models"
	"mentorgate/internal/verification/store/challenge"
	"mentorgate/internal/verification/store/record"
	"mentorgate/internal/verification/tracer"
	msync "mentorgate/pkg/sync"
)

const (
	// challengeCodeBytes yields a 16-character hex challenge code.
	challengeCodeBytes = 8

	// completeTimeout bounds the whole completion fan-out.
	completeTimeout = 30 * time.Second
)

// SignalSource fetches fresh profile signals for a handle.
type SignalSource interface {
	Signals(ctx context.Context, handle string) (models.ProfileSignals, error)
}

// OwnershipProver checks the proof channels for the challenge code.
type OwnershipProver interface {
	Verify(ctx context.Context, handle, code string) models.OwnershipProof
}

// DocumentValidator validates a batch of submitted documents.
type DocumentValidator interface {
	ValidateMultiple(ctx context.Context, submissions []document.Submission) (bool, []models.DocumentVerdict)
}

// IdentityVerifier manages the out-of-band identity confirmation flow.
type IdentityVerifier interface {
	Start(ctx context.Context, subjectID uuid.UUID, channel identity.Channel, destination string) error
	Confirm(ctx context.Context, subjectID uuid.UUID, token string) error
	IsVerified(ctx context.Context, subjectID uuid.UUID) (bool, error)
}

// Config carries the orchestrator's policy knobs.
type Config struct {
	Requirements models.MinimumRequirements
	ChallengeTTL time.Duration

	// AllowStatusDowngrade opts into strict re-evaluation: a verified
	// record may regress if signals drop. Default keeps verified as a
	// floor once reached.
	AllowStatusDowngrade bool
}

// Service is the verification orchestrator.
type Service struct {
	challenges challenge.Store
	records    record.Store
	signals    SignalSource
	ownership  OwnershipProver
	documents  DocumentValidator
	identity   IdentityVerifier
	promoter   profile.Promoter

	cfg     Config
	locks   *msync.ShardedMutex
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(
	challenges challenge.Store,
	records record.Store,
	signals SignalSource,
	ownership OwnershipProver,
	documents DocumentValidator,
	identityVerifier IdentityVerifier,
	promoter profile.Promoter,
	cfg Config,
	opts ...Option,
) *Service {
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = 30 * time.Minute
	}
	s := &Service{
		challenges: challenges,
		records:    records,
		signals:    signals,
		ownership:  ownership,
		documents:  documents,
		identity:   identityVerifier,
		promoter:   promoter,
		cfg:        cfg,
		locks:      msync.NewShardedMutex(),
		tracer:     tracer.NewNoop(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func statusRank(status models.Status) int {
	switch status {
	case models.StatusVerified:
		return 2
	case models.StatusInReview:
		return 1
	default:
		return 0
	}
}

// resolveStatus maps the overall score to a status, applying the
// monotonic floor against the previous record unless downgrades are
// allowed.
func (s *Service) resolveStatus(previous *models.VerificationRecord, overall int) models.Status {
	status := models.StatusForScore(overall)
	if previous == nil || s.cfg.AllowStatusDowngrade {
		return status
	}
	if statusRank(previous.Status) > statusRank(status) {
		return previous.Status
	}
	return status
}

// persist upserts the record and fires the promotion side effect when
// the subject transitions into verified. Promotion happens at most
// once per transition; re-verifying an already verified subject is a
// no-op.
func (s *Service) persist(ctx context.Context, previous, updated *models.VerificationRecord) error {
	if err := s.records.Upsert(ctx, updated); err != nil {
		return err
	}

	wasVerified := previous != nil && previous.Status == models.StatusVerified
	if updated.Status == models.StatusVerified && !wasVerified {
		if err := s.promoter.Promote(ctx, updated.SubjectID); err != nil {
			// The record is already persisted; promotion is retried on
			// the next attempt because the previous status still reads
			// as non-verified until then.
			s.logger.ErrorContext(ctx, "mentor promotion failed",
				"subject_id", updated.SubjectID, "error", err)
			return err
		}
		if s.metrics != nil {
			s.metrics.MentorPromotions.Inc()
		}
		s.logger.InfoContext(ctx, "subject promoted to mentor",
			"subject_id", updated.SubjectID,
			"overall_score", updated.OverallScore,
		)
	}
	return nil
}

// previousRecord loads the subject's record, absorbing not-found.
func (s *Service) previousRecord(ctx context.Context, subjectID uuid.UUID) (*models.VerificationRecord, error) {
	rec, err := s.records.Find(ctx, subjectID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}
