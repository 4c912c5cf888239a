package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now     time.Time
	breaker *Breaker
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.breaker = New("test",
		WithFailureThreshold(3),
		WithSuccessThreshold(2),
		WithResetTimeout(30*time.Second),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *BreakerSuite) trip() {
	for i := 0; i < 3; i++ {
		s.breaker.RecordFailure()
	}
}

func (s *BreakerSuite) TestOpensAfterConsecutiveFailures() {
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()
	s.False(s.breaker.IsOpen())
	s.True(s.breaker.Allow())

	useFallback, change := s.breaker.RecordFailure()
	s.True(useFallback)
	s.True(change.Opened)
	s.True(s.breaker.IsOpen())
	s.False(s.breaker.Allow())
}

func (s *BreakerSuite) TestSuccessResetsFailureStreak() {
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()
	s.breaker.RecordSuccess()
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()
	s.False(s.breaker.IsOpen())
}

func (s *BreakerSuite) TestAllowsRequestsAfterResetTimeout() {
	s.trip()
	s.False(s.breaker.Allow())

	s.now = s.now.Add(29 * time.Second)
	s.False(s.breaker.Allow())

	s.now = s.now.Add(time.Second)
	s.True(s.breaker.Allow(), "requests pass once the reset timeout elapses")
	s.True(s.breaker.IsOpen(), "allowing a request does not close the circuit by itself")
}

func (s *BreakerSuite) TestRecoverySuccessesCloseCircuit() {
	s.trip()
	s.now = s.now.Add(time.Minute)
	s.Require().True(s.breaker.Allow())

	s.breaker.RecordSuccess()
	change := s.breaker.RecordSuccess()
	s.True(change.Closed)
	s.False(s.breaker.IsOpen())
	s.True(s.breaker.Allow())
}

func (s *BreakerSuite) TestFailureDuringRecoveryRestartsWindow() {
	s.trip()
	s.now = s.now.Add(time.Minute)
	s.Require().True(s.breaker.Allow())

	s.breaker.RecordFailure()
	s.False(s.breaker.Allow())

	s.now = s.now.Add(30 * time.Second)
	s.True(s.breaker.Allow())
}
