package lease

import (
	"context"
	"fmt"
	"time"

	"flightstats-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	minBackoff = 50 * time.Millisecond
	maxBackoff = time.Second
)

// Deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisLease holds a Redis key while the provider is in use. The TTL bounds how
// long a crashed holder can block the others.
type RedisLease struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisLease creates a lease stored under key
func NewRedisLease(client *redis.Client, key string, ttl time.Duration, log logger.Logger) *RedisLease {
	return &RedisLease{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: log,
	}
}

// Acquire polls SET NX with exponential backoff until it wins or ctx is done
func (l *RedisLease) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	backoff := minBackoff

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lease %s: %w", l.key, err)
		}
		if ok {
			return func() { l.release(token) }, nil
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (l *RedisLease) release(token string) {
	// The caller's context may already be cancelled; release on a fresh one.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
		l.logger.Warn("Failed to release provider lease", "key", l.key, "error", err)
	}
}
