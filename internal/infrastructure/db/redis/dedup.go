package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/portesillo/tracking-service/internal/api/metrics"
)

const defaultDedupTTL = time.Hour

// DedupChecker provides idempotency checks backed by Redis.
// Key format: dedup:<order_id>:<status>:<idempotency_key>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
// Keys expire after ttl, or one hour when ttl <= 0.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// IsDuplicate reports whether this exact status update has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, orderID, status, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(orderID, status, key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	if n > 0 {
		metrics.IdempotentReplaysTotal.Inc()
		return true, nil
	}
	return false, nil
}

// Mark records that this status update has been applied.
func (d *DedupChecker) Mark(ctx context.Context, orderID, status, key string) error {
	if err := d.client.Set(ctx, d.key(orderID, status, key), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}

func (d *DedupChecker) key(orderID, status, key string) string {
	return fmt.Sprintf("dedup:%s:%s:%s", orderID, status, key)
}
