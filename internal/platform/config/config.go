package config

import (
	"os"
	"strconv"
	"time"

	"mentorgate/internal/verification/models"
)

// Server captures process-level configuration assembled from the environment.
type Server struct {
	Addr          string
	JWTSigningKey string

	// GitHub API access for ownership proofs and profile signals.
	GitHubAPIBase     string
	GitHubGraphQLURL  string
	GitHubToken       string
	GitHubProofRepo   string // well-known repository name checked for the challenge code
	OutboundTimeout   time.Duration
	OutboundRateLimit float64 // requests per second against the GitHub API

	// OCR sidecar for document verification.
	OCRServiceURL string

	// Stores. Empty URLs select the in-memory implementations.
	DatabaseURL string
	RedisURL    string

	ChallengeTTL     time.Duration
	IdentityTokenTTL time.Duration

	// Minimum requirement thresholds; all may legitimately be zero.
	Requirements models.MinimumRequirements

	// AllowStatusDowngrade opts into strict re-evaluation: a verified record
	// may regress if signals drop. Default keeps verified as a floor.
	AllowStatusDowngrade bool

	// MinOCRConfidence turns OCR confidence into a pass/fail gate when > 0.
	MinOCRConfidence float64
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              envOr("MENTORGATE_ADDR", ":8080"),
		JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		GitHubAPIBase:     envOr("GITHUB_API_BASE", "https://api.github.com"),
		GitHubGraphQLURL:  envOr("GITHUB_GRAPHQL_URL", "https://api.github.com/graphql"),
		GitHubToken:       os.Getenv("GITHUB_TOKEN"),
		GitHubProofRepo:   envOr("GITHUB_PROOF_REPO", "mentor-verification"),
		OCRServiceURL:     os.Getenv("OCR_SERVICE_URL"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		OutboundTimeout:   durationOr("OUTBOUND_TIMEOUT", 8*time.Second),
		OutboundRateLimit: floatOr("OUTBOUND_RATE_LIMIT", 5),
		ChallengeTTL:      durationOr("CHALLENGE_TTL", 30*time.Minute),
		IdentityTokenTTL:  durationOr("IDENTITY_TOKEN_TTL", 24*time.Hour),
		Requirements: models.MinimumRequirements{
			AccountAgeInDays: intOr("MIN_ACCOUNT_AGE_DAYS", 0),
			MinRepos:         intOr("MIN_REPOS", 0),
			MinContributions: intOr("MIN_CONTRIBUTIONS", 0),
			MinFollowers:     intOr("MIN_FOLLOWERS", 0),
		},
		AllowStatusDowngrade: os.Getenv("ALLOW_STATUS_DOWNGRADE") == "true",
		MinOCRConfidence:     floatOr("MIN_OCR_CONFIDENCE", 0),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func floatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
