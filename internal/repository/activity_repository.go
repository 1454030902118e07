package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/activity-marketplace/internal/model"
)

const activityColumns = "id, title, city, category, price, rating, duration_hours"

// ActivityRepo encapsulates all database queries related to activities.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo constructs an ActivityRepo with the provided DB handle.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Create validates and inserts a single activity.  On success a.ID holds
// the auto-generated value.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}
	const q = "INSERT INTO activities (title, city, category, price, rating, duration_hours) VALUES (?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, activityArgs(a)...)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// CreateMany inserts all activities inside one transaction.  Either every
// row is written or none is.
func (r *ActivityRepo) CreateMany(ctx context.Context, as []*model.Activity) (err error) {
	for _, a := range as {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid activity %q: %w", a.Title, err)
		}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO activities (title, city, category, price, rating, duration_hours) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	ids := make([]int64, len(as))
	for i, a := range as {
		res, execErr := stmt.ExecContext(ctx, activityArgs(a)...)
		if execErr != nil {
			err = execErr
			return err
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	// ids are only published once the rows are durable
	for i, a := range as {
		a.ID = ids[i]
	}
	return nil
}

// GetByID fetches an activity by its id.  It returns ErrActivityNotFound
// if no row is found.
func (r *ActivityRepo) GetByID(ctx context.Context, id int64) (*model.Activity, error) {
	q := "SELECT " + activityColumns + " FROM activities WHERE id = ?"
	a, err := scanActivity(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListAll returns every activity ordered by id, which is insertion order.
func (r *ActivityRepo) ListAll(ctx context.Context) ([]*model.Activity, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+activityColumns+" FROM activities ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of stored activities.
func (r *ActivityRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func activityArgs(a *model.Activity) []any {
	var rating sql.NullFloat64
	if a.Rating != nil {
		rating = sql.NullFloat64{Float64: *a.Rating, Valid: true}
	}
	var duration sql.NullInt64
	if a.DurationHours != nil {
		duration = sql.NullInt64{Int64: int64(*a.DurationHours), Valid: true}
	}
	return []any{a.Title, a.City, a.Category, a.Price.StringFixed(2), rating, duration}
}

func scanActivity(row rowScanner) (*model.Activity, error) {
	var (
		a        model.Activity
		rating   sql.NullFloat64
		duration sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.Title, &a.City, &a.Category, &a.Price, &rating, &duration); err != nil {
		return nil, err
	}
	setOptional(&a, rating, duration)
	return &a, nil
}

func setOptional(a *model.Activity, rating sql.NullFloat64, duration sql.NullInt64) {
	if rating.Valid {
		v := rating.Float64
		a.Rating = &v
	}
	if duration.Valid {
		v := int(duration.Int64)
		a.DurationHours = &v
	}
}
