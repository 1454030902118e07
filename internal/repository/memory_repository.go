package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/iliyamo/activity-marketplace/internal/model"
)

// memoryDB is the shared state behind the in-memory activity and booking
// stores.  Rows are kept in insertion order; callers always receive
// copies so stored rows cannot be mutated from outside.
type memoryDB struct {
	mu             sync.RWMutex
	activities     []model.Activity
	activityIndex  map[int64]int
	bookings       []model.Booking
	nextActivityID int64
	nextBookingID  int64
}

// MemoryActivityRepo is an in-process ActivityStore.
type MemoryActivityRepo struct {
	db *memoryDB
}

// MemoryBookingRepo is an in-process BookingStore.  It enforces the
// activity reference the same way the MySQL foreign key does.
type MemoryBookingRepo struct {
	db *memoryDB
}

// NewMemoryStores returns an activity store and a booking store that
// share one in-memory database.
func NewMemoryStores() (*MemoryActivityRepo, *MemoryBookingRepo) {
	db := &memoryDB{activityIndex: make(map[int64]int)}
	return &MemoryActivityRepo{db: db}, &MemoryBookingRepo{db: db}
}

func (r *MemoryActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	return r.CreateMany(ctx, []*model.Activity{a})
}

func (r *MemoryActivityRepo) CreateMany(_ context.Context, as []*model.Activity) error {
	for _, a := range as {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid activity %q: %w", a.Title, err)
		}
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range as {
		r.db.nextActivityID++
		a.ID = r.db.nextActivityID
		r.db.activityIndex[a.ID] = len(r.db.activities)
		r.db.activities = append(r.db.activities, a.Clone())
	}
	return nil
}

func (r *MemoryActivityRepo) GetByID(_ context.Context, id int64) (*model.Activity, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	a, ok := r.db.activity(id)
	if !ok {
		return nil, ErrActivityNotFound
	}
	return a, nil
}

func (r *MemoryActivityRepo) ListAll(_ context.Context) ([]*model.Activity, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*model.Activity, 0, len(r.db.activities))
	for i := range r.db.activities {
		a := r.db.activities[i].Clone()
		out = append(out, &a)
	}
	return out, nil
}

func (r *MemoryActivityRepo) Count(_ context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.activities)), nil
}

func (r *MemoryBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return r.CreateMany(ctx, []*model.Booking{b})
}

func (r *MemoryBookingRepo) CreateMany(_ context.Context, bs []*model.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range bs {
		if _, ok := r.db.activityIndex[b.ActivityID]; !ok {
			return ErrActivityNotFound
		}
	}
	for _, b := range bs {
		r.db.nextBookingID++
		b.ID = r.db.nextBookingID
		row := *b
		row.BookedAt = row.BookedAt.UTC()
		row.Activity = nil
		r.db.bookings = append(r.db.bookings, row)
	}
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, b := range r.db.bookings {
		if b.ID == id {
			return r.db.attach(b), nil
		}
	}
	return nil, ErrBookingNotFound
}

func (r *MemoryBookingRepo) ListAll(_ context.Context) ([]*model.Booking, error) {
	return r.filter(func(model.Booking) bool { return true }), nil
}

func (r *MemoryBookingRepo) ListByUser(_ context.Context, userID int64) ([]*model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.UserID == userID }), nil
}

func (r *MemoryBookingRepo) Count(_ context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.bookings)), nil
}

func (r *MemoryBookingRepo) filter(keep func(model.Booking) bool) []*model.Booking {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*model.Booking, 0)
	for _, b := range r.db.bookings {
		if keep(b) {
			out = append(out, r.db.attach(b))
		}
	}
	return out
}

// activity returns a copy of the stored activity.  Callers hold mu.
func (db *memoryDB) activity(id int64) (*model.Activity, bool) {
	i, ok := db.activityIndex[id]
	if !ok {
		return nil, false
	}
	a := db.activities[i].Clone()
	return &a, true
}

// attach mirrors the JOIN done by BookingRepo.  Callers hold mu.
func (db *memoryDB) attach(b model.Booking) *model.Booking {
	b.Activity, _ = db.activity(b.ActivityID)
	return &b
}
