package http

import (
	"github.com/labstack/echo/v4"
)

// Router groups every handler under /api/v1. Catalog routes are public;
// everything else sits behind the auth middleware.
type Router struct {
	Providers *ProviderHandler
	Pipeline  *PipelineHandler
	Settings  *SettingsHandler
	Tasks     *TaskHandler
	Auth      echo.MiddlewareFunc
}

// RegisterRoutes registers all API routes on e
func (r *Router) RegisterRoutes(e *echo.Echo) {
	public := e.Group("/api/v1")
	r.Providers.RegisterRoutes(public)

	protected := e.Group("/api/v1", r.Auth)
	r.Pipeline.RegisterRoutes(protected)
	r.Settings.RegisterRoutes(protected)
	r.Tasks.RegisterRoutes(protected)
}
