package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"mentorgate/pkg/requestcontext"
)

// RequestID assigns each request a UUID, exposes it via context and the
// X-Request-ID response header. Incoming X-Request-ID values are trusted from
// the reverse proxy and reused when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
