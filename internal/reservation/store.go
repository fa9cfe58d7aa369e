// Package reservation implements the seat reservation concurrency engine:
// TTL-bound seat holds, the distributed lock that serializes the
// check-and-reserve step, the confirmation state machine, and the
// availability query.
package reservation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the ephemeral TTL key-value store the engine coordinates through.
// It is the single source of truth for "is this seat currently claimed by an
// in-flight checkout". *redis.Client satisfies it; tests inject a mock.
type Store interface {
	redis.Scripter

	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	TxPipeline() redis.Pipeliner
}
