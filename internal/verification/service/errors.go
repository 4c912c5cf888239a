package service

import (
	"errors"

	"mentorgate/internal/sentinel"
	dErrors "mentorgate/pkg/domain-errors"
)

// Recoverable challenge failures surfaced to callers. Stable messages;
// clients match on the domain code.
var (
	ErrChallengeExpired = dErrors.New(dErrors.CodeChallengeExpired, "code expired or not found")
	ErrHandleMismatch   = dErrors.New(dErrors.CodeHandleMismatch, "handle does not match session")
)

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound)
}
