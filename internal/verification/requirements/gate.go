// Package requirements implements the minimum-signal gate applied before a
// challenge is issued and again after ownership is proven, guarding against
// signal drift between issuance and completion.
package requirements

import (
	"mentorgate/internal/verification/models"
)

// Requirement labels surfaced in itemized shortfalls.
const (
	RequirementAccountAge    = "account_age_in_days"
	RequirementRepos         = "min_repos"
	RequirementContributions = "min_contributions"
	RequirementFollowers     = "min_followers"
)

// Check compares fetched signals against the configured minimums and returns
// an itemized result. Zero minimums admit all comers.
func Check(signals models.ProfileSignals, minimums models.MinimumRequirements) models.GateResult {
	var failing []models.RequirementShortfall

	checks := []struct {
		name    string
		current int
		minimum int
	}{
		{RequirementAccountAge, signals.AccountAgeDays, minimums.AccountAgeInDays},
		{RequirementRepos, signals.PublicRepoCount, minimums.MinRepos},
		{RequirementContributions, signals.ContributionCount, minimums.MinContributions},
		{RequirementFollowers, signals.FollowerCount, minimums.MinFollowers},
	}

	for _, c := range checks {
		if c.current < c.minimum {
			failing = append(failing, models.RequirementShortfall{
				Requirement: c.name,
				Current:     c.current,
				Minimum:     c.minimum,
			})
		}
	}

	return models.GateResult{Passed: len(failing) == 0, Failing: failing}
}
