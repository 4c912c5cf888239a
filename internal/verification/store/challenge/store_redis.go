package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/models"
)

const challengeKeyPrefix = "challenge:"

// sessionJSON is the JSON-serializable representation of a challenge
// session. Explicit tags control the stored format.
type sessionJSON struct {
	SubjectID     string `json:"subject_id"`
	ClaimedHandle string `json:"claimed_handle"`
	Code          string `json:"code"`
	IssuedAt      int64  `json:"issued_at"`  // Unix nano
	ExpiresAt     int64  `json:"expires_at"` // Unix nano
}

// RedisStore persists challenge sessions in Redis with a server-side
// TTL, so sessions expire even if no instance ever reads them again.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func challengeKey(subjectID uuid.UUID) string {
	return challengeKeyPrefix + subjectID.String()
}

func (s *RedisStore) Save(ctx context.Context, session *models.ChallengeSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("challenge session already lapsed: %w", sentinel.ErrInvalidInput)
	}

	data, err := json.Marshal(sessionJSON{
		SubjectID:     session.SubjectID.String(),
		ClaimedHandle: session.ClaimedHandle,
		Code:          session.Code,
		IssuedAt:      session.IssuedAt.UnixNano(),
		ExpiresAt:     session.ExpiresAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("marshal challenge session: %w", err)
	}

	if err := s.client.Set(ctx, challengeKey(session.SubjectID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save challenge session: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, subjectID uuid.UUID) (*models.ChallengeSession, error) {
	data, err := s.client.Get(ctx, challengeKey(subjectID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("challenge session: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find challenge session: %w", err)
	}

	var j sessionJSON
	if err := json.Unmarshal([]byte(data), &j); err != nil {
		return nil, fmt.Errorf("unmarshal challenge session: %w", err)
	}
	parsed, err := uuid.Parse(j.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("parse subject id: %w", err)
	}

	session := &models.ChallengeSession{
		SubjectID:     parsed,
		ClaimedHandle: j.ClaimedHandle,
		Code:          j.Code,
		IssuedAt:      time.Unix(0, j.IssuedAt),
		ExpiresAt:     time.Unix(0, j.ExpiresAt),
	}
	// Redis TTL should have evicted this already; guard against clock skew.
	if session.Expired(time.Now()) {
		_ = s.client.Del(ctx, challengeKey(subjectID)).Err()
		return nil, fmt.Errorf("challenge session: %w", sentinel.ErrExpired)
	}
	return session, nil
}

// Count scans the session keyspace; Redis server-side TTLs have
// already evicted anything lapsed.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, challengeKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("count challenge sessions: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (s *RedisStore) Invalidate(ctx context.Context, subjectID uuid.UUID) error {
	if err := s.client.Del(ctx, challengeKey(subjectID)).Err(); err != nil {
		return fmt.Errorf("invalidate challenge session: %w", err)
	}
	return nil
}
