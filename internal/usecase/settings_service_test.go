package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/catalog"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
	"github.com/feiaaa1/mindstream/internal/usecase"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func existingSettings(userID string) *entity.UserSettings {
	return entity.NewDefaultSettings(userID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()
	registry := catalog.MustDefault()

	t.Run("returns stored settings", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		stored := existingSettings("user-1")
		stored.Theme = "dark"
		repo.On("FindByUserID", ctx, "user-1").Return(stored, nil)

		service := usecase.NewSettingsService(repo, registry, zap.NewNop())
		got, err := service.Get(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "dark", got.Theme)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates defaults on first access", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("FindByUserID", ctx, "user-1").Return(nil, repository.ErrNotFound)
		repo.On("Save", ctx, mock.MatchedBy(func(s *entity.UserSettings) bool {
			return s.UserID == "user-1" &&
				s.SpeechProvider == entity.DefaultSpeechProvider &&
				s.SpeechModel == entity.DefaultSpeechModel &&
				s.TextProvider == entity.DefaultTextProvider &&
				s.TextModel == entity.DefaultTextModel &&
				s.AutoSave &&
				s.DefaultCategory == "工作" &&
				s.Theme == "auto" &&
				s.Language == "zh-CN"
		})).Return(nil)

		service := usecase.NewSettingsService(repo, registry, zap.NewNop())
		got, err := service.Get(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "google", got.TextProvider)
		assert.Empty(t, got.APIKeys)
		repo.AssertExpectations(t)
	})

	t.Run("falls back to in-memory defaults when storage fails", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("FindByUserID", ctx, "user-1").Return(nil, errors.New("connection refused"))

		service := usecase.NewSettingsService(repo, registry, zap.NewNop())
		got, err := service.Get(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, entity.DefaultTextProvider, got.TextProvider)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires a user id", func(t *testing.T) {
		service := usecase.NewSettingsService(new(MockSettingsRepository), registry, zap.NewNop())
		_, err := service.Get(ctx, "")

		code, ok := apperrors.CodeOf(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrInvalidArgument, code)
	})
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()
	registry := catalog.MustDefault()

	t.Run("applies a valid change", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("FindByUserID", ctx, "user-1").Return(existingSettings("user-1"), nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		service := usecase.NewSettingsService(repo, registry, zap.NewNop())
		got, err := service.Update(ctx, "user-1", usecase.SettingsUpdate{
			TextProvider:    strPtr("deepseek"),
			TextModel:       strPtr("deepseek-chat"),
			SpeechProvider:  strPtr("openai"),
			SpeechModel:     strPtr("whisper-1"),
			AutoSave:        boolPtr(false),
			DefaultCategory: strPtr("学习"),
			Theme:           strPtr("dark"),
			Language:        strPtr("en-us"),
		})

		require.NoError(t, err)
		assert.Equal(t, "deepseek", got.TextProvider)
		assert.Equal(t, "deepseek-chat", got.TextModel)
		assert.Equal(t, "openai", got.SpeechProvider)
		assert.Equal(t, "whisper-1", got.SpeechModel)
		assert.False(t, got.AutoSave)
		assert.Equal(t, "学习", got.DefaultCategory)
		assert.Equal(t, "dark", got.Theme)
		assert.Equal(t, "en-US", got.Language)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name   string
		update usecase.SettingsUpdate
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown text provider",
			update: usecase.SettingsUpdate{TextProvider: strPtr("nope")},
			check: func(t *testing.T, err error) {
				var target *domainErrors.UnknownProviderError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "nope", target.ProviderID)
			},
		},
		{
			name:   "unknown model for provider",
			update: usecase.SettingsUpdate{TextProvider: strPtr("deepseek"), TextModel: strPtr("gpt-4")},
			check: func(t *testing.T, err error) {
				var target *domainErrors.UnknownProviderError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "gpt-4", target.ModelID)
			},
		},
		{
			name:   "speech-only provider as text provider",
			update: usecase.SettingsUpdate{TextProvider: strPtr("browser-speech"), TextModel: strPtr("browser-speech-api")},
			check: func(t *testing.T, err error) {
				var target *domainErrors.UnsupportedCapabilityError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "text", target.Capability)
			},
		},
		{
			name:   "text model as speech model",
			update: usecase.SettingsUpdate{SpeechProvider: strPtr("openai"), SpeechModel: strPtr("gpt-4")},
			check: func(t *testing.T, err error) {
				var target *domainErrors.UnsupportedCapabilityError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "speech", target.Capability)
			},
		},
		{
			name:   "unknown theme",
			update: usecase.SettingsUpdate{Theme: strPtr("blue")},
			check:  assertInvalidArgument,
		},
		{
			name:   "unknown category",
			update: usecase.SettingsUpdate{DefaultCategory: strPtr("娱乐")},
			check:  assertInvalidArgument,
		},
		{
			name:   "malformed language tag",
			update: usecase.SettingsUpdate{Language: strPtr("not a tag!!")},
			check:  assertInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSettingsRepository)
			repo.On("FindByUserID", ctx, "user-1").Return(existingSettings("user-1"), nil)

			service := usecase.NewSettingsService(repo, registry, zap.NewNop())
			_, err := service.Update(ctx, "user-1", tt.update)

			tt.check(t, err)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}

	t.Run("storage failure on read is returned", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("FindByUserID", ctx, "user-1").Return(nil, errors.New("connection refused"))

		service := usecase.NewSettingsService(repo, registry, zap.NewNop())
		_, err := service.Update(ctx, "user-1", usecase.SettingsUpdate{Theme: strPtr("dark")})

		assert.ErrorContains(t, err, "connection refused")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func assertInvalidArgument(t *testing.T, err error) {
	t.Helper()
	code, ok := apperrors.CodeOf(err)
	require.True(t, ok, "expected a coded error, got %v", err)
	assert.Equal(t, apperrors.ErrInvalidArgument, code)
}
