// Package events provides an optional idempotency window for webhook
// deliveries. Nubimed redelivers callbacks on slow responses; a short redis
// window keeps those duplicates from double-syncing without adding any
// queueing semantics.
package events

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	deliveryKeyPrefix = "nubimed_delivery:"
	defaultWindow     = 10 * time.Minute
)

// Deduper tracks recently seen deliveries. A nil Deduper is valid and sees
// nothing.
type Deduper struct {
	redis  *redis.Client
	window time.Duration
}

// NewDeduper creates a deduper over the given redis client. Returns nil when
// the client is nil, which disables deduplication entirely.
func NewDeduper(client *redis.Client, window time.Duration) *Deduper {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &Deduper{redis: client, window: window}
}

// Seen marks the payload as delivered and reports whether an identical
// payload was already seen inside the window. Errors are returned so callers
// can fail open.
func (d *Deduper) Seen(ctx context.Context, payload []byte) (bool, error) {
	if d == nil || d.redis == nil {
		return false, nil
	}
	sum := sha256.Sum256(payload)
	key := deliveryKeyPrefix + hex.EncodeToString(sum[:])
	stored, err := d.redis.SetNX(ctx, key, 1, d.window).Result()
	if err != nil {
		return false, err
	}
	return !stored, nil
}
