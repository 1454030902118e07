package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/activity-marketplace/internal/model"
)

// mysqlErrNoReferencedRow is raised when bookings.activity_id points at a
// missing activity.
const mysqlErrNoReferencedRow = 1452

// bookingSelect joins the referenced activity so each booking is returned
// with its Activity attached in a single round trip.
const bookingSelect = `SELECT b.id, b.user_id, b.activity_id, b.booked_at,
        a.id, a.title, a.city, a.category, a.price, a.rating, a.duration_hours
    FROM bookings b
    JOIN activities a ON a.id = b.activity_id`

// BookingRepo encapsulates all database queries related to bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create inserts a booking and populates b.ID.  The Activity pointer on b
// is left as supplied by the caller.  A foreign key violation is reported
// as ErrActivityNotFound.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = "INSERT INTO bookings (user_id, activity_id, booked_at) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.ActivityID, b.BookedAt.UTC())
	if err != nil {
		return translateBookingErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// CreateMany inserts all bookings inside one transaction.
func (r *BookingRepo) CreateMany(ctx context.Context, bs []*model.Booking) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO bookings (user_id, activity_id, booked_at) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	ids := make([]int64, len(bs))
	for i, b := range bs {
		res, execErr := stmt.ExecContext(ctx, b.UserID, b.ActivityID, b.BookedAt.UTC())
		if execErr != nil {
			err = translateBookingErr(execErr)
			return err
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	for i, b := range bs {
		b.ID = ids[i]
	}
	return nil
}

// GetByID fetches a booking with its activity.  It returns
// ErrBookingNotFound if no row is found.
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+" WHERE b.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListAll returns every booking ordered by id.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.Booking, error) {
	return r.list(ctx, bookingSelect+" ORDER BY b.id")
}

// ListByUser returns the bookings of one user in insertion order.  An
// unknown user yields an empty slice.
func (r *BookingRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error) {
	return r.list(ctx, bookingSelect+" WHERE b.user_id = ? ORDER BY b.id", userID)
}

// Count returns the number of stored bookings.
func (r *BookingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var (
		b        model.Booking
		a        model.Activity
		rating   sql.NullFloat64
		duration sql.NullInt64
	)
	if err := row.Scan(
		&b.ID, &b.UserID, &b.ActivityID, &b.BookedAt,
		&a.ID, &a.Title, &a.City, &a.Category, &a.Price, &rating, &duration,
	); err != nil {
		return nil, err
	}
	setOptional(&a, rating, duration)
	b.BookedAt = b.BookedAt.UTC()
	b.Activity = &a
	return &b, nil
}

func translateBookingErr(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlErrNoReferencedRow {
		return ErrActivityNotFound
	}
	return err
}
