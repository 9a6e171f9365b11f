package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

// MockSettingsRepository is a mock implementation of repository.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByUserID(ctx context.Context, userID string) (*entity.UserSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *entity.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSettingsCache_FailsOpenWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	inner := new(MockSettingsRepository)
	settings := entity.NewDefaultSettings("user-1", time.Now().UTC())
	inner.On("FindByUserID", ctx, "user-1").Return(settings, nil).Once()
	inner.On("Save", ctx, settings).Return(nil).Once()

	c := NewSettingsCache(inner, unreachableRedis(t), time.Minute, zap.NewNop())

	got, err := c.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Same(t, settings, got)

	require.NoError(t, c.Save(ctx, settings))
	inner.AssertExpectations(t)
}

func TestSettingsCache_PassesThroughNotFound(t *testing.T) {
	ctx := context.Background()
	inner := new(MockSettingsRepository)
	inner.On("FindByUserID", ctx, "user-2").Return(nil, repository.ErrNotFound).Once()

	c := NewSettingsCache(inner, unreachableRedis(t), 0, zap.NewNop())

	_, err := c.FindByUserID(ctx, "user-2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, defaultSettingsTTL, c.ttl)
}

func TestCacheKey(t *testing.T) {
	key := cacheKey("user-1")

	assert.Equal(t, key, cacheKey("user-1"))
	assert.NotEqual(t, key, cacheKey("user-2"))
	assert.Len(t, key, len("user_settings:")+16)
	assert.NotContains(t, key, "user-1")
}
