// Package score maps raw reputation signals to a 0-100 quality score.
// Everything here is a pure function of its inputs; the weighting is a fixed
// design constant, deliberately coarse, and not configurable per call.
package score

import (
	"math"

	"mentorgate/internal/verification/models"
)

// Sub-score caps. Their sum is the maximum attainable quality score of 100.
const (
	ageCap          = 20.0
	repoCap         = 25.0
	contributionCap = 35.0
	followerCap     = 20.0
)

// Age awards one point per year of account age, capped.
func Age(accountAgeDays int) float64 {
	return min(float64(accountAgeDays)/365.0, ageCap)
}

// Repositories awards five points per public repository, saturating at five repos.
func Repositories(publicRepoCount int) float64 {
	return min(float64(publicRepoCount)*5.0, repoCap)
}

// Contributions is a step function over yearly contribution count.
func Contributions(contributionCount int) float64 {
	switch {
	case contributionCount > 500:
		return contributionCap
	case contributionCount > 200:
		return 30
	case contributionCount > 100:
		return 25
	case contributionCount > 50:
		return 20
	case contributionCount > 20:
		return 15
	default:
		return min(float64(contributionCount), 10)
	}
}

// Followers awards two points per follower, capped.
func Followers(followerCount int) float64 {
	return min(float64(followerCount)*2.0, followerCap)
}

// Quality computes the overall profile quality score in [0,100].
// Sub-scores accumulate in float and a single half-up rounding happens at
// the end; the fractional age term survives until then.
func Quality(signals models.ProfileSignals) int {
	total := Age(signals.AccountAgeDays) +
		Repositories(signals.PublicRepoCount) +
		Contributions(signals.ContributionCount) +
		Followers(signals.FollowerCount)
	return int(math.Round(total))
}

// Weights of the three sub-signals in the overall trust score.
const (
	githubWeight   = 0.4
	documentWeight = 0.4
	identityWeight = 0.2
)

// Overall combines the three sub-signals into the overall trust score.
// githubScore contributes only when ownership was proven; documents and
// identity contribute 100 or 0 (binary, not graded).
func Overall(githubScore int, githubVerified, documentsVerified, identityVerified bool) int {
	var github, documents, identity float64
	if githubVerified {
		github = float64(githubScore)
	}
	if documentsVerified {
		documents = 100
	}
	if identityVerified {
		identity = 100
	}
	return int(math.Round(github*githubWeight + documents*documentWeight + identity*identityWeight))
}
