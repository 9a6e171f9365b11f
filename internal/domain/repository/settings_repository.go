package repository

import (
	"context"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
)

// SettingsRepository stores one UserSettings row per user.
type SettingsRepository interface {
	// FindByUserID returns ErrNotFound when the user has no settings yet.
	FindByUserID(ctx context.Context, userID string) (*entity.UserSettings, error)
	// Save inserts or replaces the user's settings.
	Save(ctx context.Context, settings *entity.UserSettings) error
}
