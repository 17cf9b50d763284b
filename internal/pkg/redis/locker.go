package redis

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const lockRetryInterval = 200 * time.Millisecond

var ErrLockNotAcquired = errors.New("lock not acquired")

// Locker 以 Redis 实现的按键互斥
type Locker struct {
	ttl        time.Duration
	retryTimes int
}

func NewLocker(ttl time.Duration, retryTimes int) *Locker {
	return &Locker{ttl: ttl, retryTimes: retryTimes}
}

// Lock 获取锁，返回的 unlock 只释放本次持有的锁
func (s *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := TryLock(ctx, key, token, s.ttl, s.retryTimes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return func() {
		if err := UnLock(context.Background(), key, token); err != nil {
			log.WarnContext(ctx, "release lock failed", "key", key, "err", err)
		}
	}, nil
}
