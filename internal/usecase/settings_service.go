package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/feiaaa1/mindstream/internal/catalog"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// SettingsUpdate is a partial settings change. Nil fields are left alone.
type SettingsUpdate struct {
	SpeechProvider  *string
	SpeechModel     *string
	TextProvider    *string
	TextModel       *string
	AutoSave        *bool
	DefaultCategory *string
	Theme           *string
	Language        *string
}

// SettingsService owns the per-user settings row, creating it lazily.
type SettingsService struct {
	repo     repository.SettingsRepository
	registry *catalog.Registry
	clock    func() time.Time
	logger   *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repository.SettingsRepository, registry *catalog.Registry, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		registry: registry,
		clock:    time.Now,
		logger:   logger,
	}
}

// Get returns the user's settings, creating the default row on first access.
// If storage is unavailable the defaults are returned without being saved.
func (s *SettingsService) Get(ctx context.Context, userID string) (*entity.UserSettings, error) {
	if userID == "" {
		return nil, apperrors.InvalidArgument("user id is required")
	}

	settings, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Warn("settings unavailable, using defaults",
			zap.String("user_id", userID),
			zap.Error(err))
		return entity.NewDefaultSettings(userID, s.clock().UTC()), nil
	}
	return settings, nil
}

// Update applies a partial change after checking it against the provider catalog.
func (s *SettingsService) Update(ctx context.Context, userID string, update SettingsUpdate) (*entity.UserSettings, error) {
	if userID == "" {
		return nil, apperrors.InvalidArgument("user id is required")
	}

	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := s.apply(settings, update); err != nil {
		return nil, err
	}

	if err := s.save(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("settings updated",
		zap.String("user_id", userID),
		zap.String("speech_provider", settings.SpeechProvider),
		zap.String("text_provider", settings.TextProvider))
	return settings, nil
}

// load reads the row and creates it when missing. Storage errors are returned.
func (s *SettingsService) load(ctx context.Context, userID string) (*entity.UserSettings, error) {
	settings, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		if settings.APIKeys == nil {
			settings.APIKeys = map[string]string{}
		}
		return settings, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	settings = entity.NewDefaultSettings(userID, s.clock().UTC())
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}

	s.logger.Info("default settings created", zap.String("user_id", userID))
	return settings, nil
}

func (s *SettingsService) save(ctx context.Context, settings *entity.UserSettings) error {
	settings.UpdatedAt = s.clock().UTC()
	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.Error("failed to save settings",
			zap.String("user_id", settings.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *SettingsService) apply(settings *entity.UserSettings, u SettingsUpdate) error {
	if u.SpeechProvider != nil || u.SpeechModel != nil {
		pid := valueOr(u.SpeechProvider, settings.SpeechProvider)
		mid := valueOr(u.SpeechModel, settings.SpeechModel)
		if _, _, err := s.registry.Resolve(pid, mid, entity.ModelTypeSpeech); err != nil {
			return err
		}
		settings.SpeechProvider, settings.SpeechModel = pid, mid
	}

	if u.TextProvider != nil || u.TextModel != nil {
		pid := valueOr(u.TextProvider, settings.TextProvider)
		mid := valueOr(u.TextModel, settings.TextModel)
		if _, _, err := s.registry.Resolve(pid, mid, entity.ModelTypeText); err != nil {
			return err
		}
		settings.TextProvider, settings.TextModel = pid, mid
	}

	if u.AutoSave != nil {
		settings.AutoSave = *u.AutoSave
	}

	if u.DefaultCategory != nil {
		if !entity.IsCategory(*u.DefaultCategory) {
			return apperrors.InvalidArgument(fmt.Sprintf("unknown category %q", *u.DefaultCategory))
		}
		settings.DefaultCategory = *u.DefaultCategory
	}

	if u.Theme != nil {
		if !isTheme(*u.Theme) {
			return apperrors.InvalidArgument(fmt.Sprintf("theme must be one of %s", strings.Join(entity.Themes, ", ")))
		}
		settings.Theme = *u.Theme
	}

	if u.Language != nil {
		tag, err := language.Parse(*u.Language)
		if err != nil {
			return apperrors.InvalidArgument(fmt.Sprintf("invalid language tag %q", *u.Language))
		}
		settings.Language = tag.String()
	}

	return nil
}

func isTheme(theme string) bool {
	for _, t := range entity.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
