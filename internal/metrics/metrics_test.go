package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"innkeep/internal/metrics"
)

func TestRecordHTTPRequest(t *testing.T) {
	metrics.HTTPRequestsTotal.Reset()
	metrics.HTTPRequestDuration.Reset()

	metrics.RecordHTTPRequest("POST", "/v1/bookings", "201", 0.12)
	metrics.RecordHTTPRequest("POST", "/v1/bookings", "201", 0.08)
	metrics.RecordHTTPRequest("POST", "/v1/bookings", "409", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("POST", "/v1/bookings", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("POST", "/v1/bookings", "409")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.HTTPRequestDuration))
}

func TestRecordBookingCounters(t *testing.T) {
	metrics.BookingsCreatedTotal.Reset()
	metrics.BookingConflictsTotal.Reset()
	metrics.BookingTransitionsTotal.Reset()

	metrics.RecordBookingCreated("tentative", 3)
	metrics.RecordConflict(metrics.ConflictScopeGroup)
	metrics.RecordTransition("reserved", "checked_in")

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.BookingsCreatedTotal.WithLabelValues("tentative")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BookingConflictsTotal.WithLabelValues("group")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BookingTransitionsTotal.WithLabelValues("reserved", "checked_in")))
}

func TestRecordHoldsReleased(t *testing.T) {
	before := testutil.ToFloat64(metrics.HoldsReleasedTotal)

	metrics.RecordHoldsReleased(4)

	assert.Equal(t, before+4, testutil.ToFloat64(metrics.HoldsReleasedTotal))
}
