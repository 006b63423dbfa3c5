package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList is a Redis-backed denylist of token identifiers. Entries
// expire together with the token they revoke, so the list stays bounded by
// the token TTL.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList constructs a RevocationList.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func revocationKey(jti string) string {
	return "warden:revoked:" + jti
}

// Revoke marks the token identifier as revoked until its expiry.
func (rl *RevocationList) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := rl.client.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token identifier has been revoked.
func (rl *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := rl.client.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("auth: check revocation: %w", err)
	}
	return n > 0, nil
}
