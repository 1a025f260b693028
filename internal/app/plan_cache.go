/**
 * @description
 * Projection cache. Projections over a 600-month horizon are the most
 * expensive call on the dashboard, so results are cached in Redis keyed by
 * profile id plus its updated_at timestamp — an edited profile produces a new
 * key and the stale entry simply ages out.
 *
 * @dependencies
 * - context, encoding/json, time: Standard Go libraries.
 * - github.com/redis/go-redis/v9: The Redis client library.
 */

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autopayplan/planner-service/internal/domain"
)

// PlanCache stores computed projections. Misses are normal; failures are
// logged and treated as misses so a cache outage never fails a calculation.
type PlanCache interface {
	GetProjection(ctx context.Context, key string) (*domain.ProjectionResult, bool)
	SetProjection(ctx context.Context, key string, result domain.ProjectionResult)
}

// RedisPlanCache is the Redis-backed PlanCache.
type RedisPlanCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisPlanCache creates a plan cache over an established Redis client.
func NewRedisPlanCache(client *redis.Client, prefix string, ttl time.Duration) *RedisPlanCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisPlanCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisPlanCache) key(key string) string {
	return fmt.Sprintf("%s:projection:%s", c.prefix, key)
}

func (c *RedisPlanCache) GetProjection(ctx context.Context, key string) (*domain.ProjectionResult, bool) {
	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("level=warn component=plan_cache msg=\"cache read failed\" key=%s err=%v", key, err)
		return nil, false
	}
	var result domain.ProjectionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		log.Printf("level=warn component=plan_cache msg=\"cache entry corrupt\" key=%s err=%v", key, err)
		return nil, false
	}
	return &result, true
}

func (c *RedisPlanCache) SetProjection(ctx context.Context, key string, result domain.ProjectionResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		log.Printf("level=warn component=plan_cache msg=\"cache encode failed\" key=%s err=%v", key, err)
		return
	}
	if err := c.client.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		log.Printf("level=warn component=plan_cache msg=\"cache write failed\" key=%s err=%v", key, err)
	}
}

// MemoryPlanCache is a process-local PlanCache for tests and local
// development. The map is mutex-guarded so parallel tests can share one.
type MemoryPlanCache struct {
	mu      sync.RWMutex
	entries map[string]domain.ProjectionResult
}

// NewMemoryPlanCache creates an empty in-memory plan cache.
func NewMemoryPlanCache() *MemoryPlanCache {
	return &MemoryPlanCache{entries: make(map[string]domain.ProjectionResult)}
}

func (c *MemoryPlanCache) GetProjection(ctx context.Context, key string) (*domain.ProjectionResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return &result, true
}

func (c *MemoryPlanCache) SetProjection(ctx context.Context, key string, result domain.ProjectionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
}
