package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a SET NX PX lock shared by every API instance.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *slog.Logger
}

func NewRedis(rdb *redis.Client, ttl, wait time.Duration, logger *slog.Logger) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{
		rdb:    rdb,
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
		logger: logger,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	acquireCtx := ctx
	if r.wait > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
	}

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(acquireCtx, key, token, r.ttl).Result()
		if err != nil && acquireCtx.Err() == nil {
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-acquireCtx.Done():
			return nil, errTimeout(key)
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release even if the request context is already done
			relCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseScript.Run(relCtx, r.rdb, []string{key}, token).Err(); err != nil && r.logger != nil {
				r.logger.Warn("lock release failed", "key", key, "err", err)
			}
		})
	}, nil
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}
