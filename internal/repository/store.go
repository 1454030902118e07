package repository

import (
	"context"

	"github.com/iliyamo/activity-marketplace/internal/model"
)

// ActivityStore is the persistence contract for activities.  Create and
// CreateMany assign ids in place.  ListAll returns rows in insertion order.
type ActivityStore interface {
	Create(ctx context.Context, a *model.Activity) error
	CreateMany(ctx context.Context, as []*model.Activity) error
	GetByID(ctx context.Context, id int64) (*model.Activity, error)
	ListAll(ctx context.Context) ([]*model.Activity, error)
	Count(ctx context.Context) (int64, error)
}

// BookingStore is the persistence contract for bookings.  Every read
// returns bookings with their Activity attached.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	CreateMany(ctx context.Context, bs []*model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListAll(ctx context.Context) ([]*model.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
}

var (
	_ ActivityStore = (*ActivityRepo)(nil)
	_ BookingStore  = (*BookingRepo)(nil)
	_ ActivityStore = (*MemoryActivityRepo)(nil)
	_ BookingStore  = (*MemoryBookingRepo)(nil)
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
