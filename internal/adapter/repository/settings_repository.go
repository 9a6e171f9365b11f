package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/domain/model"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

type settingsRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new user settings repository
func NewSettingsRepository(db *gorm.DB, logger *zap.Logger) repository.SettingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger,
	}
}

// FindByUserID retrieves the user's settings row
func (r *settingsRepository) FindByUserID(ctx context.Context, userID string) (*entity.UserSettings, error) {
	var row model.UserSettings

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Failed to get user settings",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}

	return row.ToEntity(), nil
}

// Save upserts the settings row keyed by user id. created_at is kept on conflict.
func (r *settingsRepository) Save(ctx context.Context, settings *entity.UserSettings) error {
	row := model.NewUserSettingsModel(settings)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"speech_provider",
				"speech_model",
				"text_provider",
				"text_model",
				"api_keys",
				"auto_save",
				"default_category",
				"theme",
				"language",
				"updated_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		// key material stays out of the log
		r.logger.Error("Failed to save user settings",
			zap.String("user_id", settings.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to save user settings: %w", err)
	}

	return nil
}
