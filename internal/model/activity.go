package model

import (
	"encoding/json"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Activity is a bookable offering such as a food tour or a museum pass.
// It corresponds to a row in the `activities` table.  Activities are
// read-only once inserted; no exposed operation updates or deletes them.
type Activity struct {
	ID            int64           // primary key, assigned by the store
	Title         string          `validate:"required"` // display name
	City          string          `validate:"required"` // location string
	Category      string          `validate:"required"` // free-form classification (Food, Culture, ...)
	Price         decimal.Decimal `validate:"gte=0"`    // exact amount, DECIMAL(10,2)
	Rating        *float64        // optional score; no range is enforced
	DurationHours *int            `validate:"omitempty,gte=0"` // optional, whole hours
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal is a struct, so numeric tags need a scalar view of it.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate checks the invariants every stored activity must satisfy.
func (a *Activity) Validate() error {
	return validate.Struct(a)
}

type activityJSON struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	City          string      `json:"city"`
	Category      string      `json:"category"`
	Price         json.Number `json:"price"`
	Rating        *float64    `json:"rating"`
	DurationHours *int        `json:"durationHours"`
}

// MarshalJSON writes the wire shape explicitly so it does not depend on
// struct field order.  Price is emitted as a JSON number with two decimals.
func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityJSON{
		ID:            a.ID,
		Title:         a.Title,
		City:          a.City,
		Category:      a.Category,
		Price:         json.Number(a.Price.StringFixed(2)),
		Rating:        a.Rating,
		DurationHours: a.DurationHours,
	})
}

// UnmarshalJSON accepts price either as a JSON number or a quoted string.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID            int64           `json:"id"`
		Title         string          `json:"title"`
		City          string          `json:"city"`
		Category      string          `json:"category"`
		Price         decimal.Decimal `json:"price"`
		Rating        *float64        `json:"rating"`
		DurationHours *int            `json:"durationHours"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = Activity{
		ID:            wire.ID,
		Title:         wire.Title,
		City:          wire.City,
		Category:      wire.Category,
		Price:         wire.Price,
		Rating:        wire.Rating,
		DurationHours: wire.DurationHours,
	}
	return nil
}

// Clone returns a deep copy, including the optional fields.
func (a Activity) Clone() Activity {
	if a.Rating != nil {
		v := *a.Rating
		a.Rating = &v
	}
	if a.DurationHours != nil {
		v := *a.DurationHours
		a.DurationHours = &v
	}
	return a
}
