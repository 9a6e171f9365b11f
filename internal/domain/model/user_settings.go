package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
)

// UserSettings is the gorm row for the user_settings table.
type UserSettings struct {
	UserID          string                                `gorm:"primaryKey;size:64"`
	SpeechProvider  string                                `gorm:"not null"`
	SpeechModel     string                                `gorm:"not null"`
	TextProvider    string                                `gorm:"not null"`
	TextModel       string                                `gorm:"not null"`
	APIKeys         datatypes.JSONType[map[string]string] `gorm:"column:api_keys;not null"`
	AutoSave        bool                                  `gorm:"not null"`
	DefaultCategory string                                `gorm:"not null"`
	Theme           string                                `gorm:"not null"`
	Language        string                                `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// NewUserSettingsModel converts domain settings into a row.
func NewUserSettingsModel(s *entity.UserSettings) *UserSettings {
	keys := s.APIKeys
	if keys == nil {
		keys = map[string]string{}
	}
	return &UserSettings{
		UserID:          s.UserID,
		SpeechProvider:  s.SpeechProvider,
		SpeechModel:     s.SpeechModel,
		TextProvider:    s.TextProvider,
		TextModel:       s.TextModel,
		APIKeys:         datatypes.NewJSONType(keys),
		AutoSave:        s.AutoSave,
		DefaultCategory: s.DefaultCategory,
		Theme:           s.Theme,
		Language:        s.Language,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ToEntity converts the row into domain settings.
func (m *UserSettings) ToEntity() *entity.UserSettings {
	keys := m.APIKeys.Data()
	if keys == nil {
		keys = map[string]string{}
	}
	return &entity.UserSettings{
		UserID:          m.UserID,
		SpeechProvider:  m.SpeechProvider,
		SpeechModel:     m.SpeechModel,
		TextProvider:    m.TextProvider,
		TextModel:       m.TextModel,
		APIKeys:         keys,
		AutoSave:        m.AutoSave,
		DefaultCategory: m.DefaultCategory,
		Theme:           m.Theme,
		Language:        m.Language,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
