// Package router assembles the echo instance: shared middleware first, then
// the activity and booking routes.
package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/activity-marketplace/internal/handler"
	"github.com/iliyamo/activity-marketplace/internal/middleware"
)

// Options carries the handlers and boundary settings needed to build the
// HTTP server.  RateLimit may be nil to disable limiting.
type Options struct {
	Activities    *handler.ActivityHandler
	Bookings      *handler.BookingHandler
	AllowedOrigin string
	RateLimit     echo.MiddlewareFunc
}

// New returns a fully configured echo instance.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())
	// CORS runs before the limiter so preflight requests are answered even when throttled
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{opts.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	var limited []echo.MiddlewareFunc
	if opts.RateLimit != nil {
		limited = append(limited, opts.RateLimit)
	}
	RegisterRoutes(e)
	RegisterActivities(e, opts.Activities, limited...)
	RegisterBookings(e, opts.Bookings, limited...)
	return e
}

// RegisterRoutes registers operational endpoints: the health check and
// Prometheus metrics.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterActivities registers the read-only activity catalog.
func RegisterActivities(e *echo.Echo, h *handler.ActivityHandler, m ...echo.MiddlewareFunc) {
	e.GET("/activities", h.ListActivities, m...)
	e.GET("/activities/:id", h.GetActivity, m...)
}

// RegisterBookings registers booking creation and per-user listing.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, m ...echo.MiddlewareFunc) {
	e.POST("/bookings", h.CreateBooking, m...)
	e.GET("/bookings", h.ListBookings, m...)
}
