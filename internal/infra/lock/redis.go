package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
)

const defaultTTL = 10 * time.Second

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, ttl: defaultTTL}
}

// NewRedisClient builds a client for addr and checks it answers.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func SlotKey(expertID uint, at time.Time) string {
	return fmt.Sprintf("appt:%d:%d", expertID, at.Unix())
}

func (l *RedisLocker) Acquire(ctx context.Context, expertID uint, at time.Time) (func(), error) {
	key := SlotKey(expertID, at)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, domain.ErrSlotBusy
	}

	return func() {
		// The request context may already be done; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
			slog.Warn("slot lock release failed", "key", key, "error", err)
		}
	}, nil
}

// NoopLocker is used when no Redis is configured; the database row lock
// and unique index still apply.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, uint, time.Time) (func(), error) {
	return func() {}, nil
}

var (
	_ domain.SlotLocker = (*RedisLocker)(nil)
	_ domain.SlotLocker = NoopLocker{}
)
