// Package session resolves bearer tokens to principals stored in Valkey.
// Tokens are issued by the authentication service, which writes the
// principal as JSON under "session:<token>" with a TTL. This package reads
// them and can mint tokens for development seeding and tests.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"nikshay/internal/models"
)

const (
	// DefaultTTL is how long a minted session lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of a random token (32 bytes = 64 hex chars).
	idLength = 32
)

// Principal is the authenticated caller behind a bearer token.
type Principal struct {
	UserID    uuid.UUID   `json:"user_id"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsAdmin reports whether the principal may use admin routes.
func (p *Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Store reads and writes sessions in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
	}
}

// Create mints a new token for p and stores it. Returns the token.
func (s *Store) Create(ctx context.Context, p *Principal) (string, error) {
	token, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	p.CreatedAt = time.Now()

	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	return token, nil
}

// Get resolves the bearer token of the request. Returns nil if the request
// carries no token or the token is unknown or expired.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Principal, error) {
	token := BearerToken(r)
	if token == "" {
		return nil, nil // No token = anonymous (not an error)
	}
	return s.Lookup(ctx, token)
}

// Lookup resolves a raw token. Returns nil if it does not exist.
func (s *Store) Lookup(ctx context.Context, token string) (*Principal, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil // Session expired or doesn't exist
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var p Principal
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &p, nil
}

// Destroy removes a token from Valkey.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// generateID creates a cryptographically random token.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
