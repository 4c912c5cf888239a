package identity

import (
	"context"
	"log/slog"
)

// Sender delivers a confirmation token out of band. Implementations
// wrap an email or SMS provider; the token must not be persisted by
// the sender.
type Sender interface {
	Send(ctx context.Context, channel Channel, destination, token string) error
}

// LogSender writes deliveries to the log instead of sending them.
// Used in development and in tests.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, channel Channel, destination, token string) error {
	s.logger.Info("identity confirmation issued",
		"channel", string(channel),
		"destination", destination,
		"token", token,
	)
	return nil
}
