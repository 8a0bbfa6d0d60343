package runlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const lockKeyPrefix = "scheduler:run-lock:"

var ErrLockNotHeld = errors.New("run lock not held by owner")

// releaseScript deletes the lock only when it still belongs to the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) domain.RunLock {
	return &redisLock{
		client: client,
	}
}

func (l *redisLock) TryAcquire(ctx context.Context, weekKey, owner string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKeyPrefix+weekKey, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

func (l *redisLock) Release(ctx context.Context, weekKey, owner string) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{lockKeyPrefix + weekKey}, owner).Int()
	if err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}
