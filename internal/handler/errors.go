// Package handler exposes the HTTP handlers for activities and bookings.
// Every error response is a JSON object with a single "error" field.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-marketplace/internal/logger"
	"github.com/iliyamo/activity-marketplace/internal/service"
)

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// writeServiceError maps classified service errors to 400/404 and anything
// else to a generic 500.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	default:
		logger.Log.WithError(err).WithField("path", c.Path()).Error("unhandled service error")
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}
}

// HTTPErrorHandler replaces echo's default so routing errors (unknown path,
// wrong method) also use the {"error": ...} shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	} else {
		logger.Log.WithError(err).Error("unhandled error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = errorJSON(c, status, msg)
}
