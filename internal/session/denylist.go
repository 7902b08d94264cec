package session

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked session tokens in Redis until their natural
// expiry. Tokens carry no server-assigned ID, so entries are keyed by a
// SHA-256 fingerprint of the full token.
type Denylist struct {
	client *redis.Client
}

// NewDenylist creates a new session denylist
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Fingerprint returns the denylist key material for a token
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func denylistKey(fingerprint string) string {
	return fmt.Sprintf("denylist:session:%s", fingerprint)
}

// Add revokes a token until its expiry instant
func (d *Denylist) Add(ctx context.Context, token string, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		// Token already expired, nothing to record
		return nil
	}

	if err := d.client.Set(ctx, denylistKey(Fingerprint(token)), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to denylist session: %w", err)
	}

	return nil
}

// Contains checks whether a token has been revoked
func (d *Denylist) Contains(ctx context.Context, token string) (bool, error) {
	exists, err := d.client.Exists(ctx, denylistKey(Fingerprint(token))).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check denylist: %w", err)
	}

	return exists > 0, nil
}

// Remove drops a token from the denylist (mainly for testing)
func (d *Denylist) Remove(ctx context.Context, token string) error {
	if err := d.client.Del(ctx, denylistKey(Fingerprint(token))).Err(); err != nil {
		return fmt.Errorf("failed to remove from denylist: %w", err)
	}

	return nil
}
