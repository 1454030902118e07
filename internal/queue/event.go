// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer.
package queue

// BookingQueueName is the durable queue booking events are routed to.
const BookingQueueName = "booking.created"

// BookingCreatedEvent is published after a booking is persisted.  It
// carries enough of the activity for downstream consumers to log or
// notify without querying the primary database.
type BookingCreatedEvent struct {
	EventID       string `json:"event_id"`
	BookingID     int64  `json:"booking_id"`
	UserID        int64  `json:"user_id"`
	ActivityID    int64  `json:"activity_id"`
	ActivityTitle string `json:"activity_title"`
	City          string `json:"city"`
	Price         string `json:"price"`
	BookedAt      string `json:"booked_at"`
}
