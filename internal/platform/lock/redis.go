package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/thesurvey/api/internal/platform/logger"
)

const (
	// leaseTTL caps how long a crashed holder can block other processes.
	// Critical sections here are a handful of row writes, so 30s is generous.
	leaseTTL     = 30 * time.Second
	pollInterval = 50 * time.Millisecond
)

// releaseScript deletes the key only when it still holds our token, so a
// lease that expired and was re-granted is never released by the old holder.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisService struct {
	rdb *goredis.Client
	log *logger.Logger
}

// NewRedisService returns a Service backed by a shared redis instance, making
// leases visible to every process using the same backend.
func NewRedisService(rdb *goredis.Client, baseLog *logger.Logger) Service {
	return &redisService{rdb: rdb, log: baseLog.With("service", "RedisLockService")}
}

func (s *redisService) Acquire(ctx context.Context, key string, timeout time.Duration) (*Handle, error) {
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}
	token := uuid.New().String()
	deadline := time.Now().Add(timeout)

	for {
		ok, err := s.rdb.SetNX(ctx, key, token, leaseTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Handle{Key: key, Token: token}, nil
		}
		if time.Now().After(deadline) {
			s.log.Debug("Lock acquire timed out", "key", key, "timeout", timeout)
			return nil, ErrTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (s *redisService) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	if err := releaseScript.Run(ctx, s.rdb, []string{h.Key}, h.Token).Err(); err != nil && err != goredis.Nil {
		s.log.Warn("Lock release failed", "key", h.Key, "error", err)
		return err
	}
	return nil
}
