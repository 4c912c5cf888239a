package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"mentorgate/internal/sentinel"
)

type captureSender struct {
	channel     Channel
	destination string
	token       string
	calls       int
}

func (s *captureSender) Send(_ context.Context, channel Channel, destination, token string) error {
	s.channel = channel
	s.destination = destination
	s.token = token
	s.calls++
	return nil
}

type IdentitySuite struct {
	suite.Suite

	now     time.Time
	sender  *captureSender
	service *Service
}

func (s *IdentitySuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.sender = &captureSender{}
	clock := func() time.Time { return s.now }
	s.service = NewService(NewMemoryStore(WithMemoryClock(clock)), s.sender,
		WithClock(clock),
	)
}

func TestIdentitySuite(t *testing.T) {
	suite.Run(t, new(IdentitySuite))
}

func (s *IdentitySuite) TestStartThenConfirm() {
	ctx := context.Background()
	subjectID := uuid.New()

	err := s.service.Start(ctx, subjectID, ChannelEmail, "mentor@example.com")
	s.Require().NoError(err)
	s.Equal(1, s.sender.calls)
	s.Equal(ChannelEmail, s.sender.channel)
	s.Equal("mentor@example.com", s.sender.destination)
	s.NotEmpty(s.sender.token)

	verified, err := s.service.IsVerified(ctx, subjectID)
	s.Require().NoError(err)
	s.False(verified, "starting a confirmation must not flip the signal")

	s.Require().NoError(s.service.Confirm(ctx, subjectID, s.sender.token))

	verified, err = s.service.IsVerified(ctx, subjectID)
	s.Require().NoError(err)
	s.True(verified)
}

func (s *IdentitySuite) TestConfirmRejectsWrongToken() {
	ctx := context.Background()
	subjectID := uuid.New()

	s.Require().NoError(s.service.Start(ctx, subjectID, ChannelEmail, "mentor@example.com"))

	err := s.service.Confirm(ctx, subjectID, "not-the-token")
	s.Require().ErrorIs(err, sentinel.ErrMismatch)

	verified, err := s.service.IsVerified(ctx, subjectID)
	s.Require().NoError(err)
	s.False(verified)
}

func (s *IdentitySuite) TestConfirmRejectsExpiredToken() {
	ctx := context.Background()
	subjectID := uuid.New()

	s.Require().NoError(s.service.Start(ctx, subjectID, ChannelPhone, "+1 555 000 1234"))
	token := s.sender.token

	s.now = s.now.Add(24*time.Hour + time.Minute)

	err := s.service.Confirm(ctx, subjectID, token)
	s.Require().ErrorIs(err, sentinel.ErrExpired)
}

func (s *IdentitySuite) TestConfirmWithoutPendingConfirmation() {
	err := s.service.Confirm(context.Background(), uuid.New(), "anything")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *IdentitySuite) TestReissueReplacesPendingToken() {
	ctx := context.Background()
	subjectID := uuid.New()

	s.Require().NoError(s.service.Start(ctx, subjectID, ChannelEmail, "mentor@example.com"))
	first := s.sender.token

	s.Require().NoError(s.service.Start(ctx, subjectID, ChannelEmail, "mentor@example.com"))
	second := s.sender.token
	s.NotEqual(first, second)

	s.Require().ErrorIs(s.service.Confirm(ctx, subjectID, first), sentinel.ErrMismatch)
	s.Require().NoError(s.service.Confirm(ctx, subjectID, second))
}

func (s *IdentitySuite) TestStartValidatesInput() {
	ctx := context.Background()
	subjectID := uuid.New()

	s.Run("unknown channel", func() {
		err := s.service.Start(ctx, subjectID, Channel("carrier-pigeon"), "somewhere")
		s.Require().ErrorIs(err, sentinel.ErrInvalidInput)
	})

	s.Run("malformed email", func() {
		err := s.service.Start(ctx, subjectID, ChannelEmail, "not-an-address")
		s.Require().ErrorIs(err, sentinel.ErrInvalidInput)
	})

	s.Run("malformed phone", func() {
		err := s.service.Start(ctx, subjectID, ChannelPhone, "call me maybe")
		s.Require().ErrorIs(err, sentinel.ErrInvalidInput)
	})
}

func (s *IdentitySuite) TestValidDestination() {
	cases := []struct {
		name        string
		channel     Channel
		destination string
		want        bool
	}{
		{"plain email", ChannelEmail, "a@b.co", true},
		{"email without domain dot", ChannelEmail, "a@b", false},
		{"email without local part", ChannelEmail, "@b.co", false},
		{"international phone", ChannelPhone, "+49 (30) 123-4567", true},
		{"short phone", ChannelPhone, "123", false},
		{"phone with letters", ChannelPhone, "555-CALL", false},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, ValidDestination(tc.channel, tc.destination))
		})
	}
}
