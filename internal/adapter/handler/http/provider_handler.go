package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feiaaa1/mindstream/internal/catalog"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// ProviderHandler serves the read-only provider catalog
type ProviderHandler struct {
	registry *catalog.Registry
}

// NewProviderHandler creates a new provider handler instance
func NewProviderHandler(registry *catalog.Registry) *ProviderHandler {
	return &ProviderHandler{registry: registry}
}

// RegisterRoutes registers the public catalog routes
func (h *ProviderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/providers", h.ListProviders)
	g.GET("/providers/:id", h.GetProvider)
}

// ListProviders handles GET /api/v1/providers[?capability=free|speech|text]
func (h *ProviderHandler) ListProviders(c echo.Context) error {
	capability := c.QueryParam("capability")
	if capability == "" {
		return c.JSON(http.StatusOK, h.registry.ListProviders())
	}
	return c.JSON(http.StatusOK, h.registry.ListByCapability(entity.Capability(capability)))
}

// GetProvider handles GET /api/v1/providers/:id
func (h *ProviderHandler) GetProvider(c echo.Context) error {
	id := c.Param("id")
	p, ok := h.registry.ProviderByID(id)
	if !ok {
		return apperrors.NotFound(fmt.Sprintf("provider %q not found", id))
	}
	return c.JSON(http.StatusOK, p)
}
