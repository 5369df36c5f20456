package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(bookingCreated.WithLabelValues("pending"))
	IncBookingCreated("pending")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingCreated.WithLabelValues("pending")))

	before = testutil.ToFloat64(scheduleErrors.WithLabelValues("Nick"))
	IncScheduleError("Nick")
	IncScheduleError("Nick")
	assert.Equal(t, before+2, testutil.ToFloat64(scheduleErrors.WithLabelValues("Nick")))

	before = testutil.ToFloat64(availabilityQueries)
	IncAvailabilityQuery()
	assert.Equal(t, before+1, testutil.ToFloat64(availabilityQueries))
}
