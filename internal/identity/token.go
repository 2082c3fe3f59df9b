package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTokenTTL is how long a bearer token lives before automatic expiry.
	DefaultTokenTTL = 24 * time.Hour

	// keyPrefix namespaces token keys in Valkey to avoid collisions.
	keyPrefix = "token:"

	// idLength is the byte length of the random token (32 bytes = 64 hex chars).
	idLength = 32
)

// TokenData is the payload stored per bearer token.
type TokenData struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	TOTPEnabled bool      `json:"totp_enabled"`
	TwoFADone   bool      `json:"two_fa_done"`
	CreatedAt   time.Time `json:"created_at"`
}

// TokenStore persists bearer tokens. Get returns (nil, nil) for unknown
// or expired tokens.
type TokenStore interface {
	Issue(ctx context.Context, data *TokenData) (string, error)
	Get(ctx context.Context, token string) (*TokenData, error)
	Update(ctx context.Context, token string, data *TokenData) error
	Revoke(ctx context.Context, token string) error
}

// ValkeyTokenStore stores tokens as JSON in Valkey with a TTL.
type ValkeyTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyTokenStore creates a token store backed by the given Valkey client.
func NewValkeyTokenStore(client *redis.Client) *ValkeyTokenStore {
	return &ValkeyTokenStore{client: client, ttl: DefaultTokenTTL}
}

// Issue generates a new random token and stores its payload.
func (s *ValkeyTokenStore) Issue(ctx context.Context, data *TokenData) (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token generate: %w", err)
	}
	token := hex.EncodeToString(b)

	data.CreatedAt = time.Now()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("token marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("token store: %w", err)
	}
	return token, nil
}

// Get retrieves the payload for a token. Returns nil if the token is
// unknown or expired.
func (s *ValkeyTokenStore) Get(ctx context.Context, token string) (*TokenData, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("token get: %w", err)
	}

	var data TokenData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("token unmarshal: %w", err)
	}
	return &data, nil
}

// Update replaces the payload for an existing token, resetting the TTL.
func (s *ValkeyTokenStore) Update(ctx context.Context, token string, data *TokenData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("token marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("token update: %w", err)
	}
	return nil
}

// Revoke removes a token.
func (s *ValkeyTokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("token revoke: %w", err)
	}
	return nil
}
