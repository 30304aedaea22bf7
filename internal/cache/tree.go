// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go provides a Valkey-backed cache for materialized descendant trees.
// Building a family's forest reads every node, so the JSON result is kept
// per family and language until the family is next modified.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// treeKeyPrefix is the Valkey key prefix for cached trees.
	treeKeyPrefix = "tree:"

	// DefaultTreeTTL is how long a materialized tree stays cached.
	DefaultTreeTTL = 10 * time.Minute
)

// TreeCache stores materialized trees in Valkey. Cache errors are logged
// and treated as misses; callers always fall back to the store.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a new tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// TreeKey returns the cache key for one view of a family's tree, e.g.
// TreeKey("algorithm-treatment", "forest", "hi").
func TreeKey(familyPath string, parts ...string) string {
	return familyPath + ":" + strings.Join(parts, ":")
}

// Get decodes the cached value for key into dst. Returns false on a miss
// or when the cached bytes cannot be decoded.
func (tc *TreeCache) Get(ctx context.Context, key string, dst any) bool {
	val, err := tc.client.Get(ctx, treeKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("tree cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("tree cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("tree cache hit", "key", key)
	return true
}

// Set stores v under key with the configured TTL.
func (tc *TreeCache) Set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("tree cache encode error", "key", key, "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKeyPrefix+key, data, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "key", key, "error", err)
	}
}

// InvalidateFamily removes every cached view of a family by scanning for
// its prefix.
func (tc *TreeCache) InvalidateFamily(ctx context.Context, familyPath string) {
	pattern := treeKeyPrefix + familyPath + ":*"
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := tc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("tree cache scan error", "family", familyPath, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := tc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("tree cache bulk delete error", "family", familyPath, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("tree cache invalidated", "family", familyPath, "deleted", deleted)
	}
}
