package reservation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/cinetix/cinema-booking/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLockOptions() LockOptions {
	return LockOptions{
		Lease:         time.Second,
		MaxWait:       50 * time.Millisecond,
		RetryInterval: 10 * time.Millisecond,
	}
}

func TestLockerAcquire(t *testing.T) {
	t.Run("acquires on the first attempt", func(t *testing.T) {
		store := new(mocks.MockRedisClient)
		store.On("SetNX", mock.Anything, "reslock:showtime:1:seats:1-2", mock.Anything, time.Second).
			Return(redis.NewBoolResult(true, nil)).Once()

		locker := NewLocker(store, testLockOptions())

		lock, err := locker.Acquire(context.Background(), "showtime:1:seats:1-2")
		require.NoError(t, err)
		require.NotNil(t, lock)

		store.AssertExpectations(t)
	})

	t.Run("retries until the lease frees up", func(t *testing.T) {
		store := new(mocks.MockRedisClient)
		store.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(redis.NewBoolResult(false, nil)).Twice()
		store.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(redis.NewBoolResult(true, nil)).Once()

		locker := NewLocker(store, testLockOptions())

		lock, err := locker.Acquire(context.Background(), "showtime:1:seats:1")
		require.NoError(t, err)
		require.NotNil(t, lock)

		store.AssertExpectations(t)
	})

	t.Run("fails with ErrLockUnavailable after max wait", func(t *testing.T) {
		store := new(mocks.MockRedisClient)
		store.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(redis.NewBoolResult(false, nil))

		locker := NewLocker(store, testLockOptions())

		lock, err := locker.Acquire(context.Background(), "showtime:1:seats:1")
		assert.Nil(t, lock)
		assert.ErrorIs(t, err, domain.ErrLockUnavailable)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		store := new(mocks.MockRedisClient)
		store.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(redis.NewBoolResult(false, fmt.Errorf("connection refused"))).Once()

		locker := NewLocker(store, testLockOptions())

		_, err := locker.Acquire(context.Background(), "showtime:1:seats:1")
		assert.EqualError(t, err, "connection refused")
	})

	t.Run("stops retrying when the context is cancelled", func(t *testing.T) {
		store := new(mocks.MockRedisClient)
		store.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(redis.NewBoolResult(false, nil))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		locker := NewLocker(store, LockOptions{
			Lease:         time.Second,
			MaxWait:       time.Minute,
			RetryInterval: 10 * time.Millisecond,
		})

		_, err := locker.Acquire(ctx, "showtime:1:seats:1")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWithLockReleasesOnEveryExitPath(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(ctx context.Context) error
		wantErr string
	}{
		{
			name: "releases after success",
			fn:   func(ctx context.Context) error { return nil },
		},
		{
			name:    "releases after a business-rule rejection",
			fn:      func(ctx context.Context) error { return fmt.Errorf("seats taken") },
			wantErr: "seats taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockRedisClient)
			store.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(redis.NewBoolResult(true, nil)).Once()
			store.On("EvalSha", mock.Anything, mock.Anything, []string{"reslock:res"}, mock.Anything).
				Return(redis.NewCmdResult(int64(1), nil)).Once()

			locker := NewLocker(store, testLockOptions())

			err := locker.WithLock(context.Background(), "res", tt.fn)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			store.AssertExpectations(t)
		})
	}
}

func TestWithLockReleasesOnPanic(t *testing.T) {
	store := new(mocks.MockRedisClient)
	store.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(redis.NewBoolResult(true, nil)).Once()
	store.On("EvalSha", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(redis.NewCmdResult(int64(1), nil)).Once()

	locker := NewLocker(store, testLockOptions())

	assert.Panics(t, func() {
		_ = locker.WithLock(context.Background(), "res", func(ctx context.Context) error {
			panic("boom")
		})
	})

	store.AssertExpectations(t)
}
