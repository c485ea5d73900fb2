package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/repository"
)

var _ repository.TaskLedger = (*redisLedger)(nil)

const ledgerKeyPrefix = "summary_task:"

type redisLedger struct {
	client *goredis.Client
}

// NewRedisTaskLedger creates a Redis-backed task ledger. Claim uses SET NX EX
// so two concurrent first-time requests for the same document cannot both
// win the slot.
func NewRedisTaskLedger(client *goredis.Client) repository.TaskLedger {
	return &redisLedger{client: client}
}

func (r *redisLedger) Get(ctx context.Context, documentID uuid.UUID) (uuid.UUID, bool, error) {
	val, err := r.client.Get(ctx, ledgerKeyPrefix+documentID.String()).Result()
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("%w: get: %v", domain.ErrLedgerUnavailable, err)
	}
	taskID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("redis: ledger entry for %s is not a task id: %w", documentID, err)
	}
	return taskID, true, nil
}

func (r *redisLedger) Claim(ctx context.Context, documentID, taskID uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, ledgerKeyPrefix+documentID.String(), taskID.String(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: claim: %v", domain.ErrLedgerUnavailable, err)
	}
	return ok, nil
}

func (r *redisLedger) Delete(ctx context.Context, documentID uuid.UUID) error {
	if err := r.client.Del(ctx, ledgerKeyPrefix+documentID.String()).Err(); err != nil {
		return fmt.Errorf("%w: delete: %v", domain.ErrLedgerUnavailable, err)
	}
	return nil
}
