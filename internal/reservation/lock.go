package reservation

import (
	"context"
	"time"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "reslock:"

// The lock value is a per-acquisition fencing token, so only the holder that
// wrote the lease can delete it. A lease that outlives its holder expires on
// its own TTL.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end

	return 0
`)

// LockOptions bound every acquisition attempt. The lease covers only the
// brief check-and-write critical section, not the hold lifetime, so it is
// measured in seconds where hold TTLs are measured in minutes.
type LockOptions struct {
	Lease         time.Duration
	MaxWait       time.Duration
	RetryInterval time.Duration
}

func DefaultLockOptions() LockOptions {
	return LockOptions{
		Lease:         5 * time.Second,
		MaxWait:       10 * time.Second,
		RetryInterval: 100 * time.Millisecond,
	}
}

// Locker acquires named, leased mutual-exclusion locks in the shared store.
// Because the lease lives in Redis rather than process memory, the lock is
// effective across server processes, not just goroutines.
type Locker struct {
	store Store
	opts  LockOptions
}

func NewLocker(store Store, opts LockOptions) *Locker {
	if opts.Lease <= 0 {
		opts = DefaultLockOptions()
	}

	return &Locker{store: store, opts: opts}
}

type Lock struct {
	store Store
	key   string
	token string
}

// Acquire retries every RetryInterval until the lease is obtained or MaxWait
// elapses, in which case it fails with domain.ErrLockUnavailable. Callers
// must treat that as a transient "try again" signal.
func (l *Locker) Acquire(ctx context.Context, resource string) (*Lock, error) {
	key := lockKeyPrefix + resource
	token := uuid.New().String()
	deadline := time.Now().Add(l.opts.MaxWait)

	for {
		ok, err := l.store.SetNX(ctx, key, token, l.opts.Lease).Result()
		if err != nil {
			return nil, err
		}

		if ok {
			return &Lock{store: l.store, key: key, token: token}, nil
		}

		if time.Now().Add(l.opts.RetryInterval).After(deadline) {
			return nil, domain.ErrLockUnavailable
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.opts.RetryInterval):
		}
	}
}

// Release deletes the lease if this lock still owns it. A lease taken over
// by someone else (after expiry) is left untouched.
func (lk *Lock) Release(ctx context.Context) error {
	return unlockScript.Run(ctx, lk.store, []string{lk.key}, lk.token).Err()
}

// WithLock runs fn while holding the lock on resource and releases the lease
// on every exit path, including panics.
func (l *Locker) WithLock(ctx context.Context, resource string, fn func(ctx context.Context) error) error {
	lock, err := l.Acquire(ctx, resource)
	if err != nil {
		return err
	}
	defer lock.Release(ctx)

	return fn(ctx)
}
