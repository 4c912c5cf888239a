package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mentorgate/internal/sentinel"
	"mentorgate/pkg/secrets"
)

const defaultTokenTTL = 24 * time.Hour

// Service issues and consumes out-of-band confirmation tokens.
type Service struct {
	store  Store
	sender Sender
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
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

func NewService(store Store, sender Sender, opts ...Option) *Service {
	s := &Service{
		store:  store,
		sender: sender,
		ttl:    defaultTokenTTL,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start issues a confirmation token and delivers it to the given
// destination. Re-issuing for the same subject replaces any pending
// confirmation; only the latest token can be redeemed.
func (s *Service) Start(ctx context.Context, subjectID uuid.UUID, channel Channel, destination string) error {
	if !channel.Valid() {
		return fmt.Errorf("%w: unknown channel %q", sentinel.ErrInvalidInput, channel)
	}
	if !ValidDestination(channel, destination) {
		return fmt.Errorf("%w: malformed %s destination", sentinel.ErrInvalidInput, channel)
	}

	token, err := secrets.Generate()
	if err != nil {
		return fmt.Errorf("generate confirmation token: %w", err)
	}
	hash, err := secrets.Hash(token)
	if err != nil {
		return fmt.Errorf("hash confirmation token: %w", err)
	}

	now := s.now()
	conf := &Confirmation{
		SubjectID:   subjectID,
		Channel:     channel,
		Destination: destination,
		TokenHash:   hash,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.store.SaveConfirmation(ctx, conf); err != nil {
		return fmt.Errorf("save confirmation: %w", err)
	}

	if err := s.sender.Send(ctx, channel, destination, token); err != nil {
		return fmt.Errorf("deliver confirmation token: %w", err)
	}

	s.logger.InfoContext(ctx, "identity confirmation started",
		"subject_id", subjectID,
		"channel", string(channel),
	)
	return nil
}

// Confirm redeems a confirmation token. On success the subject's
// identity signal is verified and the pending confirmation is
// consumed; a token can be redeemed at most once.
func (s *Service) Confirm(ctx context.Context, subjectID uuid.UUID, token string) error {
	conf, err := s.store.FindConfirmation(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("find confirmation: %w", err)
	}
	if conf.Used {
		return fmt.Errorf("confirmation token: %w", sentinel.ErrAlreadyUsed)
	}
	if err := secrets.Verify(token, conf.TokenHash); err != nil {
		return fmt.Errorf("confirmation token: %w", sentinel.ErrMismatch)
	}
	if err := s.store.MarkVerified(ctx, subjectID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	s.logger.InfoContext(ctx, "identity confirmed",
		"subject_id", subjectID,
		"channel", string(conf.Channel),
	)
	return nil
}

// IsVerified reports whether the subject has completed an out-of-band
// confirmation.
func (s *Service) IsVerified(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	return s.store.IsVerified(ctx, subjectID)
}
