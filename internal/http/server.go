// Package http serves the planning document over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/crud"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
)

type Server struct {
	http.Server
	planner *planner.Planner
	logger  *applog.Logger
	ready   func(context.Context) error

	rateLimit  float64
	rateBurst  int
	bodyLimit  string
	suspicious atomic.Int64
}

type Option func(*Server)

// WithReadiness sets the check behind /readyz, typically a store ping.
func WithReadiness(fn func(context.Context) error) Option {
	return func(s *Server) { s.ready = fn }
}

// WithRateLimit limits mutating requests per client to rps with burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rateLimit = rps
		s.rateBurst = burst
	}
}

func WithLogger(l *applog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, p *planner.Planner, opts ...Option) *Server {
	s := &Server{
		planner:   p,
		rateLimit: 5,
		rateBurst: 20,
		bodyLimit: "2M",
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = applog.FromContext(context.Background())
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = clientIPExtractor()
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(applog.Middleware(s.logger))
	e.Use(suspiciousRequests(&s.suspicious))
	e.Use(securityHeaders(DefaultHeadersConfig()))

	s.routes(e)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/readyz", s.handleReady)

	api := e.Group("/api/v1",
		middleware.BodyLimit(s.bodyLimit),
		mutationRateLimiter(s.rateLimit, s.rateBurst),
	)

	api.GET("/document", s.getDocument)
	api.PUT("/document", s.putDocument)
	api.GET("/document/:key", s.getKey)
	api.PUT("/document/:key", s.putKey)

	p := s.planner
	registerCollection(api, "/guests", "id", fixed(p.Guests))
	registerCollection(api, "/vendors", "id", fixed(p.Vendors))
	registerCollection(api, "/tasks", "id", fixed(p.Tasks))
	registerCollection(api, "/budget", "id", fixed(p.Budget))
	registerCollection(api, "/menus", "id", fixed(p.Menus))
	registerCollection(api, "/transport", "id", fixed(p.Transport))
	registerCollection(api, "/rituals", "id", fixed(p.Rituals))
	registerCollection(api, "/traditions", "id", fixed(p.Traditions))
	registerCollection(api, "/timeline", "id", fixed(p.Timeline))

	registerCollection(api, "/guests/:id/members", "memberId", func(c echo.Context) (*crud.Controller[core.FamilyMember], error) {
		return p.FamilyMembers(c.Param("id"))
	})
	registerCollection(api, "/menus/:id/items", "itemId", func(c echo.Context) (*crud.Controller[core.MenuItem], error) {
		return p.MenuItems(c.Param("id"))
	})
	registerCollection(api, "/timeline/:id/events", "eventId", func(c echo.Context) (*crud.Controller[core.TimelineEvent], error) {
		return p.TimelineEvents(c.Param("id"))
	})
	registerCollection(api, "/vendors/:id/availability", "slotId", func(c echo.Context) (*crud.Controller[core.AvailabilitySlot], error) {
		return p.VendorAvailability(c.Param("id"))
	})
	registerCollection(api, "/gifts/:list", "id", func(c echo.Context) (*crud.Controller[core.Gift], error) {
		return p.Gifts(c.Param("list"))
	})
	registerCollection(api, "/shopping/:side", "id", func(c echo.Context) (*crud.Controller[core.ShoppingEvent], error) {
		return p.ShoppingEvents(c.Param("side"))
	})
	registerCollection(api, "/shopping/:side/:id/items", "itemId", func(c echo.Context) (*crud.Controller[core.ShoppingItem], error) {
		return p.ShoppingItems(c.Param("side"), c.Param("id"))
	})

	api.GET("/summary/:view", s.getSummary)
}

// mutationRateLimiter applies a per-client token bucket to every request
// that can change the document.
func mutationRateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return true
			}
			return false
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "cannot identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			applog.FromContext(c.Request().Context()).WithComponent(applog.ComponentRateLimit).WarnContext(
				c.Request().Context(), "Rate limit exceeded",
				applog.FieldClientIP, identifier,
				applog.FieldMethod, c.Request().Method,
				applog.FieldPath, c.Request().URL.Path,
			)
			c.Response().Header().Set("Retry-After", "60")
			return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		},
	})
}

type statusResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleReady(c echo.Context) error {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", applog.FieldError, err.Error())
			return c.JSON(http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "ready"})
}
