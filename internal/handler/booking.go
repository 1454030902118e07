package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-marketplace/internal/service"
)

// BookingHandler creates and lists bookings.
type BookingHandler struct {
	Service *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc}
}

// createBookingRequest is the POST /bookings body.  Pointer fields keep a
// missing value apart from an explicit zero.
type createBookingRequest struct {
	UserID     *int64 `json:"userId"`
	ActivityID *int64 `json:"activityId"`
}

// CreateBooking handles POST /bookings.  Returns 201 with the stored
// booking, 400 on a missing or invalid body or field, and 404 when the
// activity does not exist.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body *createBookingRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return errorJSON(c, http.StatusBadRequest, "Request body is required")
		}
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if body == nil {
		return errorJSON(c, http.StatusBadRequest, "Request body is required")
	}

	booking, err := h.Service.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		UserID:     body.UserID,
		ActivityID: body.ActivityID,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// ListBookings handles GET /bookings?userId=.  A missing or non-numeric
// userId is rejected with the same message as a non-positive one.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	var userID *int64
	if id, err := strconv.ParseInt(c.QueryParam("userId"), 10, 64); err == nil {
		userID = &id
	}
	bookings, err := h.Service.ListBookingsForUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}
