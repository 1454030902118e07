package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/activity-marketplace/internal/logger"
	"github.com/iliyamo/activity-marketplace/internal/model"
	"github.com/iliyamo/activity-marketplace/internal/observability"
	"github.com/iliyamo/activity-marketplace/internal/repository"
)

// BookingStore is the subset of the booking store the service uses.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error)
}

// EventPublisher announces committed bookings to other systems.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, b *model.Booking) error
}

// CreateBookingInput mirrors the POST /bookings body.  Pointers
// distinguish an absent field from zero.
type CreateBookingInput struct {
	UserID     *int64
	ActivityID *int64
}

// BookingService validates and records bookings.
type BookingService struct {
	activities ActivityFinder
	bookings   BookingStore
	publisher  EventPublisher
	now        func() time.Time
}

// NewBookingService constructs a BookingService.  publisher may be nil,
// in which case no events are emitted.
func NewBookingService(activities ActivityFinder, bookings BookingStore, publisher EventPublisher) *BookingService {
	return &BookingService{
		activities: activities,
		bookings:   bookings,
		publisher:  publisher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking books an existing activity for a user.  Nothing prevents
// the same user from booking the same activity twice.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := validateUserID(in.UserID); err != nil {
		return nil, err
	}
	if in.ActivityID == nil {
		return nil, validationError("activityId is required")
	}
	activityID := *in.ActivityID

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, activityNotFound(activityID)
		}
		return nil, err
	}

	booking := &model.Booking{
		UserID:     *in.UserID,
		ActivityID: activity.ID,
		Activity:   activity,
		BookedAt:   s.now(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		// the activity can disappear between lookup and insert
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, activityNotFound(activityID)
		}
		return nil, err
	}
	observability.RecordBookingCreated(booking.BookedAt)

	log := logger.Log.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"user_id":     booking.UserID,
		"activity_id": booking.ActivityID,
	})
	log.Info("booking created")

	if s.publisher != nil {
		if err := s.publisher.PublishBookingCreated(ctx, booking); err != nil {
			observability.RecordPublishFailure()
			log.WithError(err).Warn("booking event not published")
		}
	}
	return booking, nil
}

// ListBookingsForUser returns a user's bookings in insertion order.
func (s *BookingService) ListBookingsForUser(ctx context.Context, userID *int64) ([]*model.Booking, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.bookings.ListByUser(ctx, *userID)
}

func validateUserID(userID *int64) error {
	if userID == nil || *userID <= 0 {
		return validationError("userId must be > 0")
	}
	return nil
}
