package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "towntriphub", Name: "bookings_created_total", Help: "Total bookings created"})
	BookingsAssignedTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "towntriphub", Name: "bookings_assigned_total", Help: "Total successful driver assignments"})
	BookingsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "towntriphub", Name: "bookings_completed_total", Help: "Total completed bookings"})
	BookingsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "towntriphub", Name: "bookings_cancelled_total", Help: "Total cancelled bookings"})
	ConflictsTotal         = promauto.NewCounter(prometheus.CounterOpts{Namespace: "towntriphub", Name: "conflicts_total", Help: "Total writes rejected by optimistic concurrency"})
	ReviewsSubmittedTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "towntriphub", Name: "reviews_submitted_total", Help: "Total reviews stored"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "towntriphub", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
)
