package reaper

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"appointments/internal/pkg/logger"
)

// MemoryGate allows one purge per cooldown per process.
type MemoryGate struct {
	cooldown time.Duration

	mu   sync.Mutex
	last time.Time
	ran  bool
}

func NewMemoryGate(cooldown time.Duration) *MemoryGate {
	return &MemoryGate{cooldown: cooldown}
}

func (g *MemoryGate) Allow(_ context.Context, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ran && now.Sub(g.last) < g.cooldown {
		return false
	}
	g.last = now
	g.ran = true
	return true
}

type setNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisGate shares the cooldown across instances through a key that lives for
// one cooldown period. If Redis is unreachable the purge is allowed.
type RedisGate struct {
	client   setNXer
	key      string
	cooldown time.Duration
	log      *zap.Logger
}

const DefaultGateKey = "appointments:reaper:last_purge"

func NewRedisGate(client *redis.Client, cooldown time.Duration, log *zap.Logger) *RedisGate {
	return &RedisGate{client: client, key: DefaultGateKey, cooldown: cooldown, log: logger.OrNop(log)}
}

func (g *RedisGate) Allow(ctx context.Context, now time.Time) bool {
	if g.cooldown <= 0 {
		return true
	}
	ok, err := g.client.SetNX(ctx, g.key, now.Unix(), g.cooldown).Result()
	if err != nil {
		g.log.Warn("reaper gate unavailable, purging anyway", zap.Error(err))
		return true
	}
	return ok
}

// NewRedisClient connects and pings with a short timeout.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
