package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-booking/internal/handler"
	"github.com/iliyamo/ticket-booking/internal/metrics"
	"github.com/iliyamo/ticket-booking/internal/middleware"
	"github.com/iliyamo/ticket-booking/internal/utils"
)

// Auth controls whether mutating and admin routes require an ADMIN token.
type Auth struct {
	Enabled   bool
	JWTSecret string
}

// guard returns the middleware chain protecting admin-only routes.  It is
// empty when auth is disabled.
func (a Auth) guard() []echo.MiddlewareFunc {
	if !a.Enabled {
		return nil
	}
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(a.JWTSecret),
		middleware.RequireRole(utils.RoleAdmin),
	}
}

// RegisterRoutes registers routes that do not require authentication: the
// health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterTickets mounts the ticket API under /api/v1/tickets.  The given
// middlewares (rate limiter, response cache) run on every ticket route in
// the order given; nil entries are skipped.  On remove and modify the auth
// guard runs first so the limiter can key on the token subject.
func RegisterTickets(e *echo.Echo, h *handler.TicketHandler, auth Auth, mws ...echo.MiddlewareFunc) {
	var chain []echo.MiddlewareFunc
	for _, mw := range mws {
		if mw != nil {
			chain = append(chain, mw)
		}
	}
	guarded := append(auth.guard(), chain...)

	g := e.Group("/api/v1/tickets")
	g.POST("/buy", h.Buy, chain...)
	g.GET("/details", h.Details, chain...)
	g.GET("/section", h.Section, chain...)
	g.DELETE("/remove", h.Remove, guarded...)
	g.PUT("/modify", h.Modify, guarded...)
}

// RegisterAdmin mounts the audit trail endpoint.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, auth Auth) {
	g := e.Group("/api/v1/admin", auth.guard()...)
	g.GET("/events", h.ListEvents)
}
