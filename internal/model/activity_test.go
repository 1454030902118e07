package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func TestActivityMarshalJSONShape(t *testing.T) {
	a := Activity{
		ID:            3,
		Title:         "Sintra Day Trip",
		City:          "Lisbon",
		Category:      "Culture",
		Price:         decimal.RequireFromString("65"),
		Rating:        ptrFloat(4.6),
		DurationHours: ptrInt(8),
	}
	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"title":"Sintra Day Trip","city":"Lisbon","category":"Culture","price":65.00,"rating":4.6,"durationHours":8}`, string(out))
	assert.Contains(t, string(out), `"price":65.00`)
}

func TestActivityMarshalJSONNullOptionals(t *testing.T) {
	out, err := json.Marshal(&Activity{ID: 1, Title: "t", City: "c", Category: "k", Price: decimal.RequireFromString("0.1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"t","city":"c","category":"k","price":0.10,"rating":null,"durationHours":null}`, string(out))
}

func TestActivityUnmarshalJSONAcceptsStringPrice(t *testing.T) {
	var a Activity
	require.NoError(t, json.Unmarshal([]byte(`{"id":9,"title":"t","city":"c","category":"k","price":"19.99","rating":null}`), &a))
	assert.Equal(t, int64(9), a.ID)
	assert.True(t, a.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Nil(t, a.Rating)
	assert.Nil(t, a.DurationHours)
}

func TestActivityValidate(t *testing.T) {
	valid := Activity{Title: "t", City: "c", Category: "k", Price: decimal.Zero}
	assert.NoError(t, valid.Validate())

	unbounded := valid
	unbounded.Rating = ptrFloat(11)
	assert.NoError(t, unbounded.Validate(), "rating has no enforced range")

	cases := map[string]func(a *Activity){
		"missing title":     func(a *Activity) { a.Title = "" },
		"missing city":      func(a *Activity) { a.City = "" },
		"missing category":  func(a *Activity) { a.Category = "" },
		"negative price":    func(a *Activity) { a.Price = decimal.RequireFromString("-0.01") },
		"negative duration": func(a *Activity) { a.DurationHours = ptrInt(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			a := valid
			mutate(&a)
			assert.Error(t, a.Validate())
		})
	}
}

func TestActivityCloneIsDeep(t *testing.T) {
	a := Activity{Rating: ptrFloat(4), DurationHours: ptrInt(2)}
	c := a.Clone()
	*c.Rating = 1
	*c.DurationHours = 9
	assert.Equal(t, 4.0, *a.Rating)
	assert.Equal(t, 2, *a.DurationHours)
}

func TestBookingJSON(t *testing.T) {
	bookedAt := time.Date(2026, time.March, 4, 10, 30, 0, 0, time.FixedZone("WET", 3600))
	b := Booking{
		ID:         12,
		UserID:     1,
		ActivityID: 3,
		Activity:   &Activity{ID: 3, Title: "t", City: "c", Category: "k", Price: decimal.RequireFromString("35")},
		BookedAt:   bookedAt,
	}
	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":12,"userId":1,"bookedAt":"2026-03-04T09:30:00Z",
		"activity":{"id":3,"title":"t","city":"c","category":"k","price":35.00,"rating":null,"durationHours":null}}`, string(out))

	var back Booking
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, int64(3), back.ActivityID)
	assert.True(t, back.BookedAt.Equal(bookedAt))
}
