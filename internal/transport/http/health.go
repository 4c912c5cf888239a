package httptransport

import (
	"context"
	"net/http"
	"time"

	"mentorgate/internal/platform/database"
	"mentorgate/internal/platform/redis"
	"mentorgate/pkg/httputil"
)

// Health reports process liveness and dependency reachability. Nil
// dependencies (memory-only deployments) are reported as "disabled".
type Health struct {
	db    *database.Pool
	redis *redis.Client
}

func NewHealth(db *database.Pool, redisClient *redis.Client) *Health {
	return &Health{db: db, redis: redisClient}
}

func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}

	switch {
	case h.db == nil:
		checks["database"] = "disabled"
	case h.db.Ping(ctx) != nil:
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	default:
		checks["database"] = "ok"
	}

	switch {
	case h.redis == nil:
		checks["redis"] = "disabled"
	case h.redis.Health(ctx) != nil:
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	default:
		checks["redis"] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	httputil.WriteJSON(w, status, map[string]any{
		"status": overall,
		"checks": checks,
	})
}
