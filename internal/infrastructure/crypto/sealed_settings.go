package crypto

import (
	"context"
	"fmt"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

// SealedSettings wraps a settings repository so API keys are sealed on the
// way in and opened on the way out. Callers always see plaintext keys; the
// inner repository (and any cache inside it) only sees sealed values.
type SealedSettings struct {
	inner  repository.SettingsRepository
	cipher *KeyCipher
}

// NewSealedSettings wraps inner with cipher.
func NewSealedSettings(inner repository.SettingsRepository, cipher *KeyCipher) *SealedSettings {
	return &SealedSettings{inner: inner, cipher: cipher}
}

func (s *SealedSettings) FindByUserID(ctx context.Context, userID string) (*entity.UserSettings, error) {
	settings, err := s.inner.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	keys, err := transformKeys(settings.APIKeys, s.cipher.Open)
	if err != nil {
		return nil, fmt.Errorf("failed to open api keys for user %s: %w", userID, err)
	}

	opened := *settings
	opened.APIKeys = keys
	return &opened, nil
}

// Save seals a copy; the caller's map is left as plaintext.
func (s *SealedSettings) Save(ctx context.Context, settings *entity.UserSettings) error {
	keys, err := transformKeys(settings.APIKeys, s.cipher.Seal)
	if err != nil {
		return fmt.Errorf("failed to seal api keys: %w", err)
	}

	sealed := *settings
	sealed.APIKeys = keys
	return s.inner.Save(ctx, &sealed)
}

func transformKeys(in map[string]string, fn func(string) (string, error)) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for providerID, value := range in {
		if value == "" {
			out[providerID] = value
			continue
		}
		converted, err := fn(value)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", providerID, err)
		}
		out[providerID] = converted
	}
	return out, nil
}
