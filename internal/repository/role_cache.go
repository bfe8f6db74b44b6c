package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cforclown/school-admin/internal/domain"
)

const roleCachePrefix = "school-admin:role:"

type cachedRole struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Permissions domain.PermissionMatrix `json:"permissions"`
}

// CachedRoleResolver serves live roles for permission checks, caching them in
// Redis for a short TTL. A nil client disables caching. Redis failures fall
// back to the store.
type CachedRoleResolver struct {
	roles  RoleRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRoleResolver builds the resolver.
func NewCachedRoleResolver(roles RoleRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRoleResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		client = nil
	}
	return &CachedRoleResolver{roles: roles, client: client, ttl: ttl, logger: logger}
}

// ResolveRole returns the non-archived role with id.
func (c *CachedRoleResolver) ResolveRole(ctx context.Context, id string) (*domain.Role, error) {
	if c.client == nil {
		return c.roles.GetByID(ctx, id)
	}

	raw, err := c.client.Get(ctx, roleCachePrefix+id).Bytes()
	switch {
	case err == nil:
		var cached cachedRole
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &domain.Role{
				ID:          cached.ID,
				Name:        cached.Name,
				Description: cached.Description,
				Permissions: cached.Permissions,
			}, nil
		}
		c.logger.Warn("discarding unreadable cached role", zap.String("role_id", id))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("role cache read failed", zap.String("role_id", id), zap.Error(err))
	}

	role, err := c.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedRole{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
	})
	if err == nil {
		if setErr := c.client.Set(ctx, roleCachePrefix+id, payload, c.ttl).Err(); setErr != nil {
			c.logger.Warn("role cache write failed", zap.String("role_id", id), zap.Error(setErr))
		}
	}
	return role, nil
}

// Invalidate drops cached entries for the given role ids.
func (c *CachedRoleResolver) Invalidate(ctx context.Context, ids ...string) error {
	if c.client == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, roleCachePrefix+id)
	}
	return c.client.Del(ctx, keys...).Err()
}
