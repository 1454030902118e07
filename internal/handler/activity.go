package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/activity-marketplace/internal/service"
)

// ActivityHandler serves the read-only activity catalog.
type ActivityHandler struct {
	Service *service.ActivityService
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	if svc == nil {
		panic("nil service passed to NewActivityHandler")
	}
	return &ActivityHandler{Service: svc}
}

// ListActivities handles GET /activities.  Optional query parameters:
// city (substring, any case), category (exact, any case) and maxPrice
// (inclusive decimal ceiling).  Always returns a JSON array.
func (h *ActivityHandler) ListActivities(c echo.Context) error {
	filter := service.ActivityFilter{
		City:     c.QueryParam("city"),
		Category: c.QueryParam("category"),
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "maxPrice must be a decimal number")
		}
		filter.MaxPrice = &maxPrice
	}

	activities, err := h.Service.ListActivities(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, activities)
}

// GetActivity handles GET /activities/:id.
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}
	activity, err := h.Service.GetActivity(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, activity)
}
