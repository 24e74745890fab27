package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce tries to acquire a dedup lock for a given handler + email uid.
// Returns true if this is the first time processing, false on a duplicate.
// When redis is unavailable it fails open and allows processing.
func (d *Deduper) AcquireOnce(ctx context.Context, handler, uid string) bool {
	key := fmt.Sprintf("dedup:%s:%s", handler, uid)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// Release frees the dedup lock so a failed handler can be redelivered.
func (d *Deduper) Release(ctx context.Context, handler, uid string) {
	key := fmt.Sprintf("dedup:%s:%s", handler, uid)
	d.rdb.Del(ctx, key)
}
