package score

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"mentorgate/internal/verification/models"
)

type ScoreSuite struct {
	suite.Suite
}

func TestScoreSuite(t *testing.T) {
	suite.Run(t, new(ScoreSuite))
}

func (s *ScoreSuite) TestSubScoreCaps() {
	s.Run("age caps at 20 points", func() {
		s.InDelta(1.0, Age(365), 0.01)
		s.Equal(20.0, Age(365*20))
		s.Equal(20.0, Age(365*100))
	})

	s.Run("repositories saturate at five repos", func() {
		s.Equal(0.0, Repositories(0))
		s.Equal(15.0, Repositories(3))
		s.Equal(25.0, Repositories(5))
		s.Equal(25.0, Repositories(6))
	})

	s.Run("contribution step function", func() {
		s.Equal(0.0, Contributions(0))
		s.Equal(7.0, Contributions(7))
		s.Equal(10.0, Contributions(15))
		s.Equal(15.0, Contributions(21))
		s.Equal(20.0, Contributions(51))
		s.Equal(25.0, Contributions(120))
		s.Equal(30.0, Contributions(300))
		s.Equal(35.0, Contributions(501))
	})

	s.Run("followers cap at 20 points", func() {
		s.Equal(6.0, Followers(3))
		s.Equal(20.0, Followers(10))
		s.Equal(20.0, Followers(500))
	})
}

func (s *ScoreSuite) TestQualityBounds() {
	s.Equal(0, Quality(models.ProfileSignals{}))
	s.Equal(100, Quality(models.ProfileSignals{
		AccountAgeDays:    365 * 25,
		PublicRepoCount:   10,
		ContributionCount: 1000,
		FollowerCount:     50,
	}))
}

// Quality must be monotonically non-decreasing in every dimension and bounded.
func (s *ScoreSuite) TestQualityMonotone() {
	base := models.ProfileSignals{
		AccountAgeDays:    200,
		PublicRepoCount:   2,
		ContributionCount: 40,
		FollowerCount:     4,
	}
	baseScore := Quality(base)
	s.GreaterOrEqual(baseScore, 0)
	s.LessOrEqual(baseScore, 100)

	bumps := []models.ProfileSignals{
		{AccountAgeDays: base.AccountAgeDays + 400, PublicRepoCount: base.PublicRepoCount, ContributionCount: base.ContributionCount, FollowerCount: base.FollowerCount},
		{AccountAgeDays: base.AccountAgeDays, PublicRepoCount: base.PublicRepoCount + 3, ContributionCount: base.ContributionCount, FollowerCount: base.FollowerCount},
		{AccountAgeDays: base.AccountAgeDays, PublicRepoCount: base.PublicRepoCount, ContributionCount: base.ContributionCount + 200, FollowerCount: base.FollowerCount},
		{AccountAgeDays: base.AccountAgeDays, PublicRepoCount: base.PublicRepoCount, ContributionCount: base.ContributionCount, FollowerCount: base.FollowerCount + 10},
	}
	for _, bumped := range bumps {
		got := Quality(bumped)
		s.GreaterOrEqual(got, baseScore)
		s.LessOrEqual(got, 100)
	}
}

// A subject with 400 days, 6 repos, 120 contributions, 3 followers scores
// 1.1 + 25 + 25 + 6 = 57.1, rounded once to 57.
func (s *ScoreSuite) TestQualityWorkedExample() {
	got := Quality(models.ProfileSignals{
		AccountAgeDays:    400,
		PublicRepoCount:   6,
		ContributionCount: 120,
		FollowerCount:     3,
	})
	s.Equal(57, got)
}

func (s *ScoreSuite) TestOverallWeighting() {
	s.Run("documents only reaches in-review band", func() {
		// 57*0.4 + 100*0.4 + 0 = 62.8 -> 63
		s.Equal(63, Overall(57, true, true, false))
	})

	s.Run("all three signals reach verified band", func() {
		// 57*0.4 + 100*0.4 + 100*0.2 = 82.8 -> 83
		s.Equal(83, Overall(57, true, true, true))
	})

	s.Run("github quality ignored when ownership unproven", func() {
		s.Equal(40, Overall(100, false, true, false))
	})

	s.Run("binary document signal is not graded", func() {
		s.Equal(Overall(0, false, true, false), Overall(0, true, true, false))
	})
}

func (s *ScoreSuite) TestStatusMapping() {
	s.Equal(models.StatusPending, models.StatusForScore(0))
	s.Equal(models.StatusPending, models.StatusForScore(59))
	s.Equal(models.StatusInReview, models.StatusForScore(60))
	s.Equal(models.StatusInReview, models.StatusForScore(79))
	s.Equal(models.StatusVerified, models.StatusForScore(80))
	s.Equal(models.StatusVerified, models.StatusForScore(100))
}
