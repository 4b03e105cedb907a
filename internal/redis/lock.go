package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. Locks guard the
// check-then-act windows in entry and exit: space selection vs. session
// start, and concurrent entries for the same vehicle.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSpaceLock attempts to acquire a lock for the given space.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireSpaceLock(ctx context.Context, spaceID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:space:%s", spaceID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSpaceLock releases the lock for the given space.
func (s *LockStore) ReleaseSpaceLock(ctx context.Context, spaceID string) error {
	key := fmt.Sprintf("lock:space:%s", spaceID)

	return s.client.Del(ctx, key).Err()
}

// AcquireVehicleLock attempts to acquire a lock for the given vehicle.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:vehicle:%s", vehicleID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseVehicleLock releases the lock for the given vehicle.
func (s *LockStore) ReleaseVehicleLock(ctx context.Context, vehicleID string) error {
	key := fmt.Sprintf("lock:vehicle:%s", vehicleID)

	return s.client.Del(ctx, key).Err()
}
