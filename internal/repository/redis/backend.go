package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/repository"
)

var _ repository.TaskBackend = (*redisBackend)(nil)

const resultKeyPrefix = "summary_result:"

type redisBackend struct {
	client *goredis.Client
}

// NewRedisTaskBackend creates a Redis-backed task status store. Statuses are
// stored as JSON values that expire, so the backend never needs cleanup.
func NewRedisTaskBackend(client *goredis.Client) repository.TaskBackend {
	return &redisBackend{client: client}
}

func (r *redisBackend) SetStatus(ctx context.Context, status *domain.TaskStatus, ttl time.Duration) error {
	status.UpdatedAt = time.Now().UTC()
	body, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("redis: marshal task status: %w", err)
	}
	key := resultKeyPrefix + status.TaskID.String()
	if err := r.client.Set(ctx, key, body, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set task status: %w", err)
	}
	return nil
}

func (r *redisBackend) GetStatus(ctx context.Context, taskID uuid.UUID) (*domain.TaskStatus, error) {
	val, err := r.client.Get(ctx, resultKeyPrefix+taskID.String()).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get task status: %w", err)
	}
	status := &domain.TaskStatus{}
	if err := json.Unmarshal(val, status); err != nil {
		return nil, fmt.Errorf("redis: unmarshal task status: %w", err)
	}
	return status, nil
}
