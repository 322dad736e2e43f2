// Package cache keeps read-through copies of hot records in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
)

const demandKeyPrefix = "crowdinfra:demand:"

// DemandCache stores JSON-encoded demands keyed by id.
type DemandCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewDemandCache builds a cache over client. A non-positive ttl keeps entries until overwritten.
func NewDemandCache(client redis.Cmdable, ttl time.Duration) *DemandCache {
	return &DemandCache{client: client, ttl: ttl}
}

// Get returns the cached demand and whether it was present.
func (c *DemandCache) Get(ctx context.Context, id string) (*domain.Demand, bool, error) {
	raw, err := c.client.Get(ctx, DemandKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	demand, err := decodeDemand(raw)
	if err != nil {
		return nil, false, err
	}
	return demand, true, nil
}

// Set writes demand, replacing any previous copy.
func (c *DemandCache) Set(ctx context.Context, demand *domain.Demand) error {
	raw, err := encodeDemand(demand)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, DemandKey(demand.ID), raw, c.ttl).Err()
}

// Delete evicts the entry for id.
func (c *DemandCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, DemandKey(id)).Err()
}

// DemandKey is the Redis key holding demand id.
func DemandKey(id string) string {
	return demandKeyPrefix + id
}

func encodeDemand(demand *domain.Demand) ([]byte, error) {
	return json.Marshal(demand)
}

func decodeDemand(raw []byte) (*domain.Demand, error) {
	var demand domain.Demand
	if err := json.Unmarshal(raw, &demand); err != nil {
		return nil, err
	}
	return &demand, nil
}
