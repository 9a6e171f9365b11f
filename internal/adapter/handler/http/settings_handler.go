package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/usecase"
	"github.com/feiaaa1/mindstream/pkg/logger"
)

// UpdateSettingsRequest is the body of PATCH /api/v1/settings
type UpdateSettingsRequest struct {
	SpeechProvider  *string `json:"speechProvider" validate:"omitnil,min=1"`
	SpeechModel     *string `json:"speechModel" validate:"omitnil,min=1"`
	TextProvider    *string `json:"textProvider" validate:"omitnil,min=1"`
	TextModel       *string `json:"textModel" validate:"omitnil,min=1"`
	AutoSave        *bool   `json:"autoSave"`
	DefaultCategory *string `json:"defaultCategory" validate:"omitnil,min=1"`
	Theme           *string `json:"theme" validate:"omitnil,oneof=light dark auto"`
	Language        *string `json:"language" validate:"omitnil,min=2,max=35"`
}

// SetAPIKeyRequest is the body of PUT /api/v1/settings/api-keys/:provider
type SetAPIKeyRequest struct {
	APIKey string `json:"apiKey" validate:"required,max=512"`
}

// SettingsResponse is UserSettings with the key values masked
type SettingsResponse struct {
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

func newSettingsResponse(s *entity.UserSettings) SettingsResponse {
	keys := make(map[string]string, len(s.APIKeys))
	for providerID, key := range s.APIKeys {
		keys[providerID] = logger.MaskSecret(key)
	}
	return SettingsResponse{
		UserID:          s.UserID,
		SpeechProvider:  s.SpeechProvider,
		SpeechModel:     s.SpeechModel,
		TextProvider:    s.TextProvider,
		TextModel:       s.TextModel,
		APIKeys:         keys,
		AutoSave:        s.AutoSave,
		DefaultCategory: s.DefaultCategory,
		Theme:           s.Theme,
		Language:        s.Language,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// SettingsHandler handles user settings and stored API keys
type SettingsHandler struct {
	settings    *usecase.SettingsService
	credentials *usecase.CredentialService
}

// NewSettingsHandler creates a new settings handler instance
func NewSettingsHandler(settings *usecase.SettingsService, credentials *usecase.CredentialService) *SettingsHandler {
	return &SettingsHandler{
		settings:    settings,
		credentials: credentials,
	}
}

// RegisterRoutes registers the authenticated settings routes
func (h *SettingsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/settings", h.GetSettings)
	g.PATCH("/settings", h.UpdateSettings)
	g.PUT("/settings/api-keys/:provider", h.SetAPIKey)
	g.DELETE("/settings/api-keys/:provider", h.RemoveAPIKey)
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	settings, err := h.settings.Get(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSettingsResponse(settings))
}

// UpdateSettings handles PATCH /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req UpdateSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	settings, err := h.settings.Update(c.Request().Context(), uid, usecase.SettingsUpdate{
		SpeechProvider:  req.SpeechProvider,
		SpeechModel:     req.SpeechModel,
		TextProvider:    req.TextProvider,
		TextModel:       req.TextModel,
		AutoSave:        req.AutoSave,
		DefaultCategory: req.DefaultCategory,
		Theme:           req.Theme,
		Language:        req.Language,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSettingsResponse(settings))
}

// SetAPIKey handles PUT /api/v1/settings/api-keys/:provider
func (h *SettingsHandler) SetAPIKey(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req SetAPIKeyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	settings, err := h.credentials.SetAPIKey(c.Request().Context(), uid, c.Param("provider"), req.APIKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSettingsResponse(settings))
}

// RemoveAPIKey handles DELETE /api/v1/settings/api-keys/:provider
func (h *SettingsHandler) RemoveAPIKey(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	settings, err := h.credentials.RemoveAPIKey(c.Request().Context(), uid, c.Param("provider"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSettingsResponse(settings))
}
