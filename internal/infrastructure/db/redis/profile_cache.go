package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/relaycrm/crm-system/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache caches sanitized user profiles for /user/me lookups.
// Key format: profile:<user_id>. The cached document is the JSON form of
// domain.User, which already excludes the password hash.
type ProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// Get returns the cached profile, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		// A corrupt entry is treated as a miss; the store is authoritative.
		return nil, nil
	}
	return &user, nil
}

// Set stores the profile with a short TTL.
func (c *ProfileCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("profile cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, profileTTL).Err()
}

func (c *ProfileCache) key(userID string) string {
	return "profile:" + userID
}
