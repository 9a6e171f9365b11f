package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

const (
	settingsKeyPrefix  = "user_settings"
	defaultSettingsTTL = 5 * time.Minute
)

// SettingsCache is a read-through Redis cache in front of a SettingsRepository.
// Redis failures never fail a request; the inner repository is used instead.
type SettingsCache struct {
	inner  repository.SettingsRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSettingsCache wraps a settings repository with a Redis cache.
func NewSettingsCache(inner repository.SettingsRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *SettingsCache {
	if ttl <= 0 {
		ttl = defaultSettingsTTL
	}
	return &SettingsCache{
		inner:  inner,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

// FindByUserID serves from Redis when possible and fills the cache on a miss.
func (c *SettingsCache) FindByUserID(ctx context.Context, userID string) (*entity.UserSettings, error) {
	key := cacheKey(userID)

	cached, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var settings entity.UserSettings
		jsonErr := json.Unmarshal(cached, &settings)
		if jsonErr == nil {
			return &settings, nil
		}
		c.logger.Warn("Failed to deserialize cached settings", zap.String("user_id", userID), zap.Error(jsonErr))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Failed to get cached settings from Redis", zap.String("user_id", userID), zap.Error(err))
	}

	settings, err := c.inner.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, settings)
	return settings, nil
}

// Save writes through to the repository and drops the cached copy.
func (c *SettingsCache) Save(ctx context.Context, settings *entity.UserSettings) error {
	if err := c.inner.Save(ctx, settings); err != nil {
		return err
	}

	if err := c.redis.Del(ctx, cacheKey(settings.UserID)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate cached settings", zap.String("user_id", settings.UserID), zap.Error(err))
	}
	return nil
}

func (c *SettingsCache) store(ctx context.Context, key string, settings *entity.UserSettings) {
	data, err := json.Marshal(settings)
	if err != nil {
		c.logger.Warn("Failed to serialize settings for cache", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to store settings in Redis", zap.String("user_id", settings.UserID), zap.Error(err))
	}
}

// cacheKey hashes the user id so raw ids do not appear in Redis key listings.
func cacheKey(userID string) string {
	hash := sha256.Sum256([]byte(userID))
	return fmt.Sprintf("%s:%s", settingsKeyPrefix, hex.EncodeToString(hash[:])[:16])
}
