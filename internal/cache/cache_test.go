// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "tree:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

type cachedForest struct {
	ID    string   `json:"_id"`
	Names []string `json:"names"`
}

func TestTreeCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTreeCache(client, 1*time.Minute)

	ctx := context.Background()
	key := TreeKey("algorithm-treatment", "forest", "en")

	// Miss.
	var got cachedForest
	if tc.Get(ctx, key, &got) {
		t.Error("expected cache miss")
	}

	// Set.
	want := cachedForest{ID: "root", Names: []string{"a", "b"}}
	tc.Set(ctx, key, want)

	// Hit.
	if !tc.Get(ctx, key, &got) {
		t.Fatal("expected cache hit")
	}
	if got.ID != want.ID || len(got.Names) != 2 || got.Names[1] != "b" {
		t.Errorf("data mismatch: got %+v, want %+v", got, want)
	}
}

func TestTreeCacheUndecodableIsMiss(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTreeCache(client, 1*time.Minute)

	ctx := context.Background()
	key := TreeKey("algorithm-diagnosis", "forest", "en")
	client.Set(ctx, treeKeyPrefix+key, "not json", time.Minute)

	var got cachedForest
	if tc.Get(ctx, key, &got) {
		t.Error("expected miss for undecodable value")
	}
}

func TestTreeCacheInvalidateFamily(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTreeCache(client, 1*time.Minute)

	ctx := context.Background()

	tc.Set(ctx, TreeKey("algorithm-treatment", "forest", "en"), cachedForest{ID: "a"})
	tc.Set(ctx, TreeKey("algorithm-treatment", "forest", "hi"), cachedForest{ID: "b"})
	tc.Set(ctx, TreeKey("algorithm-treatment", "child", "en", "x"), cachedForest{ID: "c"})
	tc.Set(ctx, TreeKey("resource-material", "forest", "en"), cachedForest{ID: "d"})

	tc.InvalidateFamily(ctx, "algorithm-treatment")

	var got cachedForest
	for _, key := range []string{
		TreeKey("algorithm-treatment", "forest", "en"),
		TreeKey("algorithm-treatment", "forest", "hi"),
		TreeKey("algorithm-treatment", "child", "en", "x"),
	} {
		if tc.Get(ctx, key, &got) {
			t.Errorf("expected miss for %q after InvalidateFamily", key)
		}
	}

	// Other families are untouched.
	if !tc.Get(ctx, TreeKey("resource-material", "forest", "en"), &got) {
		t.Error("expected resource-material entry to survive")
	}
}

func TestTreeKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"forest", "en"}, "algorithm-treatment:forest:en"},
		{[]string{"child", "hi", "42"}, "algorithm-treatment:child:hi:42"},
	}
	for _, tt := range tests {
		if got := TreeKey("algorithm-treatment", tt.parts...); got != tt.want {
			t.Errorf("TreeKey(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestNewTreeCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)

	// TTL = 0 should use default.
	tc := NewTreeCache(client, 0)
	if tc.ttl != DefaultTreeTTL {
		t.Errorf("expected DefaultTreeTTL (%v), got %v", DefaultTreeTTL, tc.ttl)
	}
}
