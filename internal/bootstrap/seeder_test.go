package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/activity-marketplace/internal/model"
	"github.com/iliyamo/activity-marketplace/internal/repository"
)

func TestSeedEmptyStoreInsertsCatalog(t *testing.T) {
	ctx := context.Background()
	activities, _ := repository.NewMemoryStores()

	inserted, err := Seed(ctx, activities)
	require.NoError(t, err)
	assert.Equal(t, 10, inserted)

	n, err := activities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	all, _ := activities.ListAll(ctx)
	assert.Equal(t, "Lisbon Food Tour", all[0].Title)
	assert.Equal(t, "35.00", all[0].Price.StringFixed(2))
	assert.Equal(t, "Amsterdam Canal Cruise", all[9].Title)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	activities, _ := repository.NewMemoryStores()

	_, err := Seed(ctx, activities)
	require.NoError(t, err)
	inserted, err := Seed(ctx, activities)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	n, _ := activities.Count(ctx)
	assert.Equal(t, int64(10), n)
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	activities, _ := repository.NewMemoryStores()
	require.NoError(t, activities.Create(ctx, SampleActivities()[0]))

	inserted, err := Seed(ctx, activities)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	n, _ := activities.Count(ctx)
	assert.Equal(t, int64(1), n)
}

type brokenStore struct{}

func (brokenStore) Count(context.Context) (int64, error) { return 0, errors.New("no db") }
func (brokenStore) CreateMany(context.Context, []*model.Activity) error {
	panic("must not insert when count fails")
}

func TestSeedPropagatesCountError(t *testing.T) {
	_, err := Seed(context.Background(), brokenStore{})
	assert.Error(t, err)
}

func TestSampleActivitiesAreValid(t *testing.T) {
	sample := SampleActivities()
	require.Len(t, sample, 10)
	for _, a := range sample {
		assert.NoError(t, a.Validate(), a.Title)
		assert.Zero(t, a.ID)
	}
}
