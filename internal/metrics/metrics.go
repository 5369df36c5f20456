package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "detailing"

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_rejected_total",
			Help:      "Count of booking submissions rejected before insert, by reason.",
		},
		[]string{"reason"},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_transition_total",
			Help:      "Count of booking status changes by target status.",
		},
		[]string{"status"},
	)

	availabilityQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_queries_total",
			Help:      "Count of availability computations.",
		},
	)

	scheduleErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_schedule_errors_total",
			Help:      "Count of workers skipped because their schedule could not produce slots.",
		},
		[]string{"worker"},
	)

	mailProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_processed_total",
			Help:      "Count of queued emails by type and outcome.",
		},
		[]string{"type", "outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingRejected, bookingTransition, availabilityQueries, scheduleErrors, mailProcessed)
	})
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncBookingTransition(status string) {
	bookingTransition.WithLabelValues(status).Inc()
}

func IncAvailabilityQuery() {
	availabilityQueries.Inc()
}

func IncScheduleError(worker string) {
	scheduleErrors.WithLabelValues(worker).Inc()
}

func IncMailProcessed(mailType, outcome string) {
	mailProcessed.WithLabelValues(mailType, outcome).Inc()
}
