package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis for the hot entry/exit path.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	// Vehicles are immutable after registration, so a long TTL is safe.
	VehicleCacheTTL = 10 * time.Minute

	// The entrance count gates every entry; entrances change rarely.
	EntranceCountTTL = 30 * time.Second
)

// Key prefixes
const (
	vehicleCachePrefix = "cache:vehicle:"
	entranceCountKey   = "cache:entrances:count"
)

// CachedVehicle represents a cached vehicle entity.
type CachedVehicle struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	Size        int    `json:"size"`
}

// GetVehicle retrieves a vehicle from cache. Returns nil on cache miss.
func (s *CacheStore) GetVehicle(ctx context.Context, vehicleID string) (*CachedVehicle, error) {
	key := vehicleCachePrefix + vehicleID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached CachedVehicle
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

// SetVehicle stores a vehicle in cache.
func (s *CacheStore) SetVehicle(ctx context.Context, vehicle *CachedVehicle) error {
	data, err := json.Marshal(vehicle)
	if err != nil {
		return err
	}

	key := vehicleCachePrefix + vehicle.ID
	return s.client.Set(ctx, key, data, VehicleCacheTTL).Err()
}

// GetEntranceCount retrieves the cached entrance count.
// Returns -1 on cache miss.
func (s *CacheStore) GetEntranceCount(ctx context.Context) (int, error) {
	count, err := s.client.Get(ctx, entranceCountKey).Int()
	if err != nil {
		if err == redis.Nil {
			return -1, nil // Cache miss
		}
		return -1, err
	}

	return count, nil
}

// SetEntranceCount caches the entrance count.
func (s *CacheStore) SetEntranceCount(ctx context.Context, count int) error {
	return s.client.Set(ctx, entranceCountKey, count, EntranceCountTTL).Err()
}

// InvalidateEntranceCount drops the cached entrance count. Called when an
// entrance is created so the parking-closed gate sees the new count.
func (s *CacheStore) InvalidateEntranceCount(ctx context.Context) error {
	return s.client.Del(ctx, entranceCountKey).Err()
}
