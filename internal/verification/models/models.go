// Package models holds the domain types of the mentor trust-verification
// pipeline. Types here are plain data; behavior lives in the verifier and
// service packages.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a subject's verification record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusInReview Status = "in_review"
	StatusVerified Status = "verified"
)

// Score thresholds mapping an overall score to a status.
const (
	VerifiedThreshold = 80
	InReviewThreshold = 60
)

// StatusForScore maps an overall score to its status.
func StatusForScore(score int) Status {
	switch {
	case score >= VerifiedThreshold:
		return StatusVerified
	case score >= InReviewThreshold:
		return StatusInReview
	default:
		return StatusPending
	}
}

// ChallengeSession is an outstanding ownership challenge. At most one live
// session exists per subject; a newer one silently replaces the old.
type ChallengeSession struct {
	SubjectID     uuid.UUID
	ClaimedHandle string
	Code          string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// Expired reports whether the session is past its validity window.
func (s *ChallengeSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ChannelMatches records, per ownership proof channel, whether the challenge
// code was found. All three are always populated for transparency.
type ChannelMatches struct {
	Bio      bool `json:"bio"`
	RepoFile bool `json:"repo_file"`
	Gist     bool `json:"gist"`
}

// OwnershipProof is the immutable outcome of one proof attempt.
// Verified is the logical OR of the channel matches.
type OwnershipProof struct {
	Verified bool           `json:"verified"`
	Channels ChannelMatches `json:"channels_checked"`
}

// ProfileSignals are the quantitative reputation signals fetched fresh from
// the external platform on every attempt. They are never cached beyond the
// request lifetime.
type ProfileSignals struct {
	AccountAgeDays    int `json:"account_age_days"`
	PublicRepoCount   int `json:"public_repo_count"`
	ContributionCount int `json:"contribution_count"`
	FollowerCount     int `json:"follower_count"`
}

// MinimumRequirements are the configurable gate thresholds. All may be zero.
type MinimumRequirements struct {
	AccountAgeInDays int `json:"account_age_in_days"`
	MinRepos         int `json:"min_repos"`
	MinContributions int `json:"min_contributions"`
	MinFollowers     int `json:"min_followers"`
}

// RequirementShortfall itemizes one failed minimum requirement.
type RequirementShortfall struct {
	Requirement string `json:"requirement"`
	Current     int    `json:"current"`
	Minimum     int    `json:"minimum"`
}

// GateResult is the outcome of the minimum-requirements pre-check.
type GateResult struct {
	Passed  bool                   `json:"passed"`
	Failing []RequirementShortfall `json:"failing,omitempty"`
}

// DocumentType keys the validation rule set applied to a submitted document.
type DocumentType string

const (
	DocumentTypeDegree      DocumentType = "degree"
	DocumentTypeCertificate DocumentType = "certificate"
	DocumentTypeLicense     DocumentType = "professional_license"
)

// DocumentMetadata holds best-effort fields extracted from the original-case
// OCR text. Partially populated metadata on a failed verdict is expected.
type DocumentMetadata struct {
	IssueDate   string `json:"issue_date,omitempty"`
	Institution string `json:"institution,omitempty"`
	Credential  string `json:"credential,omitempty"`
}

// DocumentVerdict is the structured pass/fail result for one document.
type DocumentVerdict struct {
	DocumentType   DocumentType     `json:"document_type"`
	Verified       bool             `json:"verified"`
	FailureReasons []string         `json:"failure_reasons,omitempty"`
	Metadata       DocumentMetadata `json:"metadata"`
	OCRConfidence  float64          `json:"ocr_confidence"`
}

// GitHubData captures everything learned about the claimed handle during a
// completion attempt, persisted for status queries.
type GitHubData struct {
	Handle       string         `json:"handle"`
	Signals      ProfileSignals `json:"signals"`
	QualityScore int            `json:"quality_score"`
	Channels     ChannelMatches `json:"channels_checked"`
}

// VerificationRecord is the persisted, per-subject verification outcome.
// It is upserted on every attempt.
type VerificationRecord struct {
	SubjectID           uuid.UUID              `json:"subject_id"`
	Status              Status                 `json:"status"`
	GitHubVerified      bool                   `json:"github_verified"`
	GitHubData          *GitHubData            `json:"github_data,omitempty"`
	DocumentsVerified   bool                   `json:"documents_verified"`
	Documents           []DocumentVerdict      `json:"documents,omitempty"`
	IdentityVerified    bool                   `json:"identity_verified"`
	OverallScore        int                    `json:"overall_score"`
	FailingRequirements []RequirementShortfall `json:"failing_requirements,omitempty"`
	VerificationDate    time.Time              `json:"verification_date"`
	UpdatedAt           time.Time              `json:"updated_at"`
}
