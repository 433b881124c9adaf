// Package router defines how HTTP routes are registered for the site.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/achievement-registry/internal/handler"
)

// RegisterRoutes registers the health check, the landing page and the
// achievement API on e. Extra middleware passed in page is applied to the
// landing page only; the API is never cached because unlocks must be visible
// to the next read.
func RegisterRoutes(e *echo.Echo, h *handler.AchievementHandler, page ...echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/", h.Home, page...)

	api := e.Group("/api/achievements")
	api.GET("", h.List)
	api.GET("/catalog", h.Catalog)
	api.POST("/:achievement", h.Unlock)
}
