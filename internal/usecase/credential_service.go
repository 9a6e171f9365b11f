package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/catalog"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// CredentialService stores and resolves per-user provider API keys.
// Key material never reaches the logs; only user and provider ids do.
type CredentialService struct {
	settings *SettingsService
	registry *catalog.Registry
	logger   *zap.Logger
}

// NewCredentialService creates a new credential service
func NewCredentialService(settings *SettingsService, registry *catalog.Registry, logger *zap.Logger) *CredentialService {
	return &CredentialService{
		settings: settings,
		registry: registry,
		logger:   logger,
	}
}

// GetAPIKey returns the user's key for a provider. Absent or unreadable
// settings mean no key.
func (s *CredentialService) GetAPIKey(ctx context.Context, userID, providerID string) (string, bool) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return "", false
	}
	return settings.APIKey(providerID)
}

// SetAPIKey stores a key for a provider that requires one.
func (s *CredentialService) SetAPIKey(ctx context.Context, userID, providerID, apiKey string) (*entity.UserSettings, error) {
	p, ok := s.registry.ProviderByID(providerID)
	if !ok {
		return nil, &domainErrors.UnknownProviderError{ProviderID: providerID}
	}
	if !p.APIKeyRequired {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("provider %q does not use an API key", providerID))
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, apperrors.InvalidArgument("API key must not be blank")
	}

	settings, err := s.settings.load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	settings.APIKeys[providerID] = apiKey
	if err := s.settings.save(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("API key stored",
		zap.String("user_id", userID),
		zap.String("provider_id", providerID))
	return settings, nil
}

// RemoveAPIKey deletes the stored key. Removing an absent key is not an error.
func (s *CredentialService) RemoveAPIKey(ctx context.Context, userID, providerID string) (*entity.UserSettings, error) {
	if _, ok := s.registry.ProviderByID(providerID); !ok {
		return nil, &domainErrors.UnknownProviderError{ProviderID: providerID}
	}

	settings, err := s.settings.load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if _, ok := settings.APIKeys[providerID]; !ok {
		return settings, nil
	}

	delete(settings.APIKeys, providerID)
	if err := s.settings.save(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("API key removed",
		zap.String("user_id", userID),
		zap.String("provider_id", providerID))
	return settings, nil
}

// requireKey returns the key a provider needs, or MissingCredential.
// Providers that need no key get "".
func requireKey(settings *entity.UserSettings, p entity.Provider) (string, error) {
	if !p.APIKeyRequired {
		return "", nil
	}
	key, ok := settings.APIKey(p.ID)
	if !ok {
		return "", domainErrors.NewMissingCredentialError(p.ID)
	}
	return key, nil
}
