package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"marketbrief/db"
)

// RunGuard admits the first caller for a key and rejects the rest.
type RunGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
}

type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = struct{}{}
	return true, nil
}

// RedisGuard shares the marker between instances with SETNX. Markers expire
// after two days.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client, ttl: 48 * time.Hour}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, db.RunMarkerKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}
