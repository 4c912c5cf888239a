package record

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/models"
)

type MemoryStoreSuite struct {
	suite.Suite

	store *MemoryStore
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func sampleRecord(subjectID uuid.UUID) *models.VerificationRecord {
	now := time.Now()
	return &models.VerificationRecord{
		SubjectID:      subjectID,
		Status:         models.StatusInReview,
		GitHubVerified: true,
		GitHubData: &models.GitHubData{
			Handle:       "octocat",
			QualityScore: 76,
			Signals: models.ProfileSignals{
				AccountAgeDays:    400,
				PublicRepoCount:   6,
				ContributionCount: 120,
				FollowerCount:     3,
			},
			Channels: models.ChannelMatches{Gist: true},
		},
		OverallScore:     70,
		VerificationDate: now,
		UpdatedAt:        now,
	}
}

func (s *MemoryStoreSuite) TestUpsertAndFind() {
	ctx := context.Background()
	subjectID := uuid.New()

	s.Require().NoError(s.store.Upsert(ctx, sampleRecord(subjectID)))

	found, err := s.store.Find(ctx, subjectID)
	s.Require().NoError(err)
	s.Equal(models.StatusInReview, found.Status)
	s.Require().NotNil(found.GitHubData)
	s.Equal("octocat", found.GitHubData.Handle)
	s.Equal(70, found.OverallScore)
}

func (s *MemoryStoreSuite) TestFindUnknownSubject() {
	_, err := s.store.Find(context.Background(), uuid.New())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestUpsertReplacesExistingRecord() {
	ctx := context.Background()
	subjectID := uuid.New()

	first := sampleRecord(subjectID)
	s.Require().NoError(s.store.Upsert(ctx, first))

	second := sampleRecord(subjectID)
	second.Status = models.StatusVerified
	second.IdentityVerified = true
	second.OverallScore = 90
	s.Require().NoError(s.store.Upsert(ctx, second))

	found, err := s.store.Find(ctx, subjectID)
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, found.Status)
	s.Equal(90, found.OverallScore)
	s.True(found.IdentityVerified)
}

func (s *MemoryStoreSuite) TestFindReturnsCopy() {
	ctx := context.Background()
	subjectID := uuid.New()

	s.Require().NoError(s.store.Upsert(ctx, sampleRecord(subjectID)))

	found, err := s.store.Find(ctx, subjectID)
	s.Require().NoError(err)
	found.Status = models.StatusPending

	again, err := s.store.Find(ctx, subjectID)
	s.Require().NoError(err)
	s.Equal(models.StatusInReview, again.Status)
}
