package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innkeep_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "innkeep_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BookingConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innkeep_booking_conflicts_total",
			Help: "Booking attempts rejected because the room was taken",
		},
		[]string{"scope"},
	)

	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innkeep_bookings_created_total",
			Help: "Total number of bookings created",
		},
		[]string{"status"},
	)

	HoldsReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "innkeep_holds_released_total",
			Help: "Tentative holds cancelled after their release deadline",
		},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innkeep_booking_transitions_total",
			Help: "Booking status changes",
		},
		[]string{"from", "to"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "innkeep_hold_sweep_duration_seconds",
			Help:    "Duration of one hold sweeper pass",
			Buckets: prometheus.DefBuckets,
		},
	)
)

const (
	ConflictScopeSingle = "single"
	ConflictScopeGroup  = "group"
	ConflictScopeStore  = "store"
)

func RecordHTTPRequest(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordConflict counts a rejected booking. scope tells whether the engine
// caught it for one room, for a group, or the database constraint did.
func RecordConflict(scope string) {
	BookingConflictsTotal.WithLabelValues(scope).Inc()
}

func RecordBookingCreated(status string, count int) {
	BookingsCreatedTotal.WithLabelValues(status).Add(float64(count))
}

func RecordHoldsReleased(count int) {
	HoldsReleasedTotal.Add(float64(count))
}

func RecordTransition(from, to string) {
	BookingTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordSweep(duration float64) {
	SweepDuration.Observe(duration)
}
