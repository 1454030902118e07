package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/activity-marketplace/internal/model"
)

func newActivity(title, city string) *model.Activity {
	return &model.Activity{Title: title, City: city, Category: "Food", Price: decimal.RequireFromString("10")}
}

func TestMemoryActivityRepo(t *testing.T) {
	ctx := context.Background()
	activities, _ := NewMemoryStores()

	n, err := activities.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	a := newActivity("A", "Lisbon")
	require.NoError(t, activities.Create(ctx, a))
	assert.Equal(t, int64(1), a.ID)

	batch := []*model.Activity{newActivity("B", "Porto"), newActivity("C", "Rome")}
	require.NoError(t, activities.CreateMany(ctx, batch))
	assert.Equal(t, int64(2), batch[0].ID)
	assert.Equal(t, int64(3), batch[1].ID)

	all, err := activities.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].Title, all[1].Title, all[2].Title})

	got, err := activities.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)

	got.Title = "mutated"
	again, _ := activities.GetByID(ctx, 2)
	assert.Equal(t, "B", again.Title, "callers receive copies")

	_, err = activities.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestMemoryActivityRepoRejectsInvalidBatch(t *testing.T) {
	ctx := context.Background()
	activities, _ := NewMemoryStores()

	err := activities.CreateMany(ctx, []*model.Activity{newActivity("ok", "x"), {Title: ""}})
	require.Error(t, err)
	n, _ := activities.Count(ctx)
	assert.Zero(t, n, "nothing is written when one row is invalid")
}

func TestMemoryBookingRepo(t *testing.T) {
	ctx := context.Background()
	activities, bookings := NewMemoryStores()
	a := newActivity("A", "Lisbon")
	require.NoError(t, activities.Create(ctx, a))

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := &model.Booking{UserID: 1, ActivityID: a.ID, BookedAt: now}
	second := &model.Booking{UserID: 2, ActivityID: a.ID, BookedAt: now}
	third := &model.Booking{UserID: 1, ActivityID: a.ID, BookedAt: now.Add(time.Minute)}
	require.NoError(t, bookings.Create(ctx, first))
	require.NoError(t, bookings.CreateMany(ctx, []*model.Booking{second, third}))
	assert.Equal(t, []int64{1, 2, 3}, []int64{first.ID, second.ID, third.ID})

	mine, err := bookings.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, third.ID, mine[1].ID)
	require.NotNil(t, mine[0].Activity)
	assert.Equal(t, "A", mine[0].Activity.Title)

	none, err := bookings.ListByUser(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	got, err := bookings.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.UserID)

	_, err = bookings.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	all, _ := bookings.ListAll(ctx)
	assert.Len(t, all, 3)
	n, _ := bookings.Count(ctx)
	assert.Equal(t, int64(3), n)
}

func TestMemoryBookingRepoEnforcesActivityReference(t *testing.T) {
	_, bookings := NewMemoryStores()
	err := bookings.Create(context.Background(), &model.Booking{UserID: 1, ActivityID: 5, BookedAt: time.Now()})
	assert.ErrorIs(t, err, ErrActivityNotFound)
}
