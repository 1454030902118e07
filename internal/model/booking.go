package model

import (
	"encoding/json"
	"time"
)

// Booking records that a user reserved an activity at a point in time.
// It corresponds to a row in the `bookings` table.  The activity is a
// non-owning reference: many bookings may point at the same activity.
type Booking struct {
	ID         int64     // primary key, assigned by the store
	UserID     int64     // opaque user identifier, always positive
	ActivityID int64     // foreign key to activities.id
	Activity   *Activity // attached on read
	BookedAt   time.Time // server time at creation
}

type bookingJSON struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	Activity *Activity `json:"activity"`
	BookedAt string    `json:"bookedAt"`
}

// MarshalJSON emits id, userId, the embedded activity and bookedAt as an
// ISO-8601 timestamp in UTC.
func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookingJSON{
		ID:       b.ID,
		UserID:   b.UserID,
		Activity: b.Activity,
		BookedAt: b.BookedAt.UTC().Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.  ActivityID is taken from
// the embedded activity when present.
func (b *Booking) UnmarshalJSON(data []byte) error {
	var wire bookingJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	bookedAt, err := time.Parse(time.RFC3339Nano, wire.BookedAt)
	if err != nil {
		return err
	}
	*b = Booking{
		ID:       wire.ID,
		UserID:   wire.UserID,
		Activity: wire.Activity,
		BookedAt: bookedAt,
	}
	if wire.Activity != nil {
		b.ActivityID = wire.Activity.ID
	}
	return nil
}
