package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	bookingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activity_marketplace",
		Subsystem: "bookings",
		Name:      "created_total",
		Help:      "Number of bookings persisted.",
	})
	lastBookingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "activity_marketplace",
		Subsystem: "bookings",
		Name:      "last_booked_timestamp_seconds",
		Help:      "Unix timestamp of the most recent booking.",
	})
	activitiesSeeded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activity_marketplace",
		Subsystem: "activities",
		Name:      "seeded_total",
		Help:      "Number of sample activities inserted at startup.",
	})
	eventsPublishFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activity_marketplace",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Number of booking events that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(bookingsCreated, lastBookingGauge, activitiesSeeded, eventsPublishFailed)
}

// RecordBookingCreated counts a booking and moves the watermark gauge.
func RecordBookingCreated(ts time.Time) {
	bookingsCreated.Inc()
	if !ts.IsZero() {
		lastBookingGauge.Set(float64(ts.Unix()))
	}
}

// RecordActivitiesSeeded adds n to the seeded counter.
func RecordActivitiesSeeded(n int) {
	if n > 0 {
		activitiesSeeded.Add(float64(n))
	}
}

// RecordPublishFailure counts a dropped booking event.
func RecordPublishFailure() {
	eventsPublishFailed.Inc()
}
