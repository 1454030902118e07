// Package service holds the request validation and filtering rules that sit
// between the HTTP handlers and the stores.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/activity-marketplace/internal/model"
	"github.com/iliyamo/activity-marketplace/internal/repository"
)

// ActivityFinder is the read side of the activity store.
type ActivityFinder interface {
	GetByID(ctx context.Context, id int64) (*model.Activity, error)
	ListAll(ctx context.Context) ([]*model.Activity, error)
}

// ActivityFilter narrows a listing.  Zero values disable a filter.
type ActivityFilter struct {
	City     string
	Category string
	MaxPrice *decimal.Decimal
}

// Apply runs the filters in a fixed order: city (case-insensitive
// substring), category (case-insensitive equality), then max price
// (inclusive).  The input order is preserved.
func (f ActivityFilter) Apply(in []*model.Activity) []*model.Activity {
	out := make([]*model.Activity, 0, len(in))
	city := strings.ToLower(f.City)
	for _, a := range in {
		if city != "" && !strings.Contains(strings.ToLower(a.City), city) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(a.Category, f.Category) {
			continue
		}
		if f.MaxPrice != nil && a.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ActivityService answers activity queries.
type ActivityService struct {
	activities ActivityFinder
}

// NewActivityService constructs an ActivityService.
func NewActivityService(activities ActivityFinder) *ActivityService {
	return &ActivityService{activities: activities}
}

// ListActivities loads every activity and filters in memory.  No match is
// an empty slice, not an error.
func (s *ActivityService) ListActivities(ctx context.Context, filter ActivityFilter) ([]*model.Activity, error) {
	all, err := s.activities.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(all), nil
}

// GetActivity fetches by id.
func (s *ActivityService) GetActivity(ctx context.Context, id int64) (*model.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, activityNotFound(id)
		}
		return nil, err
	}
	return a, nil
}
