// Package bootstrap prepares the activity store before the server starts
// accepting requests.
package bootstrap

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/activity-marketplace/internal/logger"
	"github.com/iliyamo/activity-marketplace/internal/model"
	"github.com/iliyamo/activity-marketplace/internal/observability"
)

// SeedStore is what Seed needs from the activity store.
type SeedStore interface {
	Count(ctx context.Context) (int64, error)
	CreateMany(ctx context.Context, as []*model.Activity) error
}

// Seed inserts the sample catalog when the store is empty and returns how
// many rows it wrote.  An empty store is the only "not yet seeded" signal,
// so restarts never duplicate rows.
func Seed(ctx context.Context, store SeedStore) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.WithField("activities", n).Debug("activity store not empty; skipping seed")
		return 0, nil
	}

	sample := SampleActivities()
	if err := store.CreateMany(ctx, sample); err != nil {
		return 0, err
	}
	observability.RecordActivitiesSeeded(len(sample))
	logger.Log.WithFields(logrus.Fields{"inserted": len(sample)}).Info("seeded sample activities")
	return len(sample), nil
}

// SampleActivities returns a fresh copy of the startup catalog.
func SampleActivities() []*model.Activity {
	return []*model.Activity{
		sample("Lisbon Food Tour", "Lisbon", "Food", "35.00", 4.7, 3),
		sample("Porto Wine Tasting", "Porto", "Food", "55.00", 4.8, 2),
		sample("Sintra Day Trip", "Lisbon", "Culture", "65.00", 4.6, 8),
		sample("Barcelona Gaudí Walk", "Barcelona", "Culture", "25.00", 4.5, 2),
		sample("Rome Colosseum Skip-the-Line", "Rome", "Culture", "75.00", 4.9, 3),
		sample("Algarve Kayak Caves", "Lagos", "Adventure", "50.00", 4.8, 3),
		sample("Madeira Levada Hike", "Funchal", "Nature", "45.00", 4.7, 5),
		sample("Berlin Techno Night", "Berlin", "Nightlife", "30.00", 4.3, 4),
		sample("Paris Museum Pass Day", "Paris", "Culture", "90.00", 4.4, 6),
		sample("Amsterdam Canal Cruise", "Amsterdam", "Adventure", "20.00", 4.2, 2),
	}
}

func sample(title, city, category, price string, rating float64, hours int) *model.Activity {
	return &model.Activity{
		Title:         title,
		City:          city,
		Category:      category,
		Price:         decimal.RequireFromString(price),
		Rating:        &rating,
		DurationHours: &hours,
	}
}
