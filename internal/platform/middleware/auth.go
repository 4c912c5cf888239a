package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mentorgate/pkg/requestcontext"
)

// Auth validates HS256 bearer tokens and injects the subject ID into context.
// The verification API trusts the surrounding platform to have authenticated
// users; this middleware only binds operations to a subject identity.
type Auth struct {
	signingKey []byte
	logger     *slog.Logger
}

// NewAuth creates the auth middleware with the given HMAC signing key.
func NewAuth(signingKey string, logger *slog.Logger) *Auth {
	return &Auth{signingKey: []byte(signingKey), logger: logger}
}

// Handler wraps next with bearer token validation.
func (a *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		subjectID, err := a.validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			a.logger.WarnContext(r.Context(), "unauthorized access - invalid token",
				"request_id", requestcontext.RequestID(r.Context()),
				"error", err,
			)
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		ctx := requestcontext.WithSubjectID(r.Context(), subjectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validate parses the token and returns the subject UUID from the sub claim.
func (a *Auth) validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("missing sub claim: %w", err)
	}
	if _, err := uuid.Parse(sub); err != nil {
		return "", fmt.Errorf("sub claim is not a UUID: %w", err)
	}
	return sub, nil
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}
