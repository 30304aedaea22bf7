package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"nikshay/internal/models"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test keys.
		keys, _ := client.Keys(ctx, "session:*").Result()
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

func TestSessionCreateAndGet(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client)
	ctx := context.Background()

	p := &Principal{UserID: uuid.New(), Role: models.RoleAdmin}

	token, err := store.Create(ctx, p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(token) != 2*idLength {
		t.Errorf("token length: got %d, want %d", len(token), 2*idLength)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	retrieved, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected principal, got nil")
	}
	if retrieved.UserID != p.UserID {
		t.Errorf("userID: got %s, want %s", retrieved.UserID, p.UserID)
	}
	if !retrieved.IsAdmin() {
		t.Errorf("role: got %q, want admin", retrieved.Role)
	}
}

func TestSessionGetNoToken(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client)

	req := httptest.NewRequest("GET", "/", nil)
	p, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (no token): %v", err)
	}
	if p != nil {
		t.Error("expected nil for request without a bearer token")
	}
}

func TestSessionGetUnknownToken(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer nonexistent-token")

	p, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (unknown): %v", err)
	}
	if p != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestSessionCorruptPayload(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client)
	ctx := context.Background()

	client.Set(ctx, keyPrefix+"corrupt", "{not json", DefaultTTL)

	if _, err := store.Lookup(ctx, "corrupt"); err == nil {
		t.Error("expected unmarshal error for corrupt payload")
	}
}

func TestSessionDestroy(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client)
	ctx := context.Background()

	token, err := store.Create(ctx, &Principal{UserID: uuid.New(), Role: models.RoleSubscriber})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	p, _ := store.Lookup(ctx, token)
	if p != nil {
		t.Error("expected nil after destroy")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"basic scheme", "Basic dXNlcjpwYXNz", ""},
		{"no token", "Bearer", ""},
		{"extra spaces", "Bearer   abc123 ", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := BearerToken(req); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
