package entity

import "time"

// Default settings applied when a user's settings row is created lazily.
const (
	DefaultSpeechProvider = "browser-speech"
	DefaultSpeechModel    = "browser-speech-api"
	DefaultTextProvider   = "google"
	DefaultTextModel      = "gemini-pro"
	DefaultCategory       = "工作"
	DefaultTheme          = "auto"
	DefaultLanguage       = "zh-CN"
	DefaultAutoSave       = true
)

// Themes accepted by the settings update path.
var Themes = []string{"light", "dark", "auto"}

// UserSettings holds one user's provider selection, credentials and preferences.
type UserSettings struct {
	UserID          string            `json:"userId"`
	SpeechProvider  string            `json:"speechProvider"`
	SpeechModel     string            `json:"speechModel"`
	TextProvider    string            `json:"textProvider"`
	TextModel       string            `json:"textModel"`
	APIKeys         map[string]string `json:"apiKeys"`
	AutoSave        bool              `json:"autoSave"`
	DefaultCategory string            `json:"defaultCategory"`
	Theme           string            `json:"theme"`
	Language        string            `json:"language"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// NewDefaultSettings returns the settings a user starts with.
func NewDefaultSettings(userID string, now time.Time) *UserSettings {
	return &UserSettings{
		UserID:          userID,
		SpeechProvider:  DefaultSpeechProvider,
		SpeechModel:     DefaultSpeechModel,
		TextProvider:    DefaultTextProvider,
		TextModel:       DefaultTextModel,
		APIKeys:         map[string]string{},
		AutoSave:        DefaultAutoSave,
		DefaultCategory: DefaultCategory,
		Theme:           DefaultTheme,
		Language:        DefaultLanguage,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// APIKey returns the stored key for a provider. Blank keys count as absent.
func (s *UserSettings) APIKey(providerID string) (string, bool) {
	if s == nil || s.APIKeys == nil {
		return "", false
	}
	key, ok := s.APIKeys[providerID]
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
