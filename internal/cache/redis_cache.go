package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
)

const (
	listingKeyPrefix = "venues"
	// ListingTTL bounds staleness of cached listings (10 hours).
	ListingTTL = 36000 * time.Second
)

// RedisVenueCache caches serialized venue listing envelopes in Redis.
type RedisVenueCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisVenueCache returns a cache bound to the given client.
func NewRedisVenueCache(client *redis.Client) *RedisVenueCache {
	return &RedisVenueCache{client: client, ttl: ListingTTL}
}

// ListingKey builds the cache key for one (page, limit, location) tuple.
func ListingKey(page, limit int, location string) string {
	return fmt.Sprintf("%s:%d:%d:%s", listingKeyPrefix, page, limit, location)
}

// GetListing returns the cached envelope for the tuple, or nil on a miss.
func (c *RedisVenueCache) GetListing(ctx context.Context, page, limit int, location string) (*model.VenueListing, error) {
	data, err := c.client.Get(ctx, ListingKey(page, limit, location)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var listing model.VenueListing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// SetListing stores the envelope under the tuple's key with the fixed TTL.
func (c *RedisVenueCache) SetListing(ctx context.Context, page, limit int, location string, listing *model.VenueListing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.SetEx(ctx, ListingKey(page, limit, location), data, c.ttl).Err()
}

// InvalidateAll deletes every cached listing by scanning the key
// pattern. Correctness over precision: a single venue mutation can
// affect any page/filter combination.
func (c *RedisVenueCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, listingKeyPrefix+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}
