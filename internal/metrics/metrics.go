// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "elitestay_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elitestay_bookings_created_total",
		Help: "Bookings persisted successfully.",
	})

	ReservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elitestay_reservation_conflicts_total",
		Help: "Booking attempts rejected because the room was occupied.",
	})

	BookingCompensations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elitestay_booking_compensations_total",
		Help: "Reservations released after a failed booking write.",
	})

	RoomsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elitestay_reconcile_rooms_released_total",
		Help: "Rooms released by the reconciliation sweep.",
	})

	ReconcileFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elitestay_reconcile_failures_total",
		Help: "Per-booking reconciliation failures by stage.",
	}, []string{"stage"})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elitestay_notification_failures_total",
		Help: "Notifications that could not be delivered.",
	})

	RecommendationIndexSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "elitestay_recommendation_index_documents",
		Help: "Documents in the recommendation index.",
	}, []string{"index"})
)
