package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "archivio",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests by route, method, and status class.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "archivio",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	assignmentDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archivio",
		Subsystem: "assignments",
		Name:      "decisions_total",
		Help:      "Placement evaluations by outcome.",
	}, []string{"outcome"})

	reservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "archivio",
		Subsystem: "assignments",
		Name:      "reservation_conflicts_total",
		Help:      "Slot reservations lost to a concurrent writer.",
	})

	workerEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archivio",
		Subsystem: "worker",
		Name:      "events_total",
		Help:      "Document events processed by the worker, by type and result.",
	}, []string{"event", "result"})
)

// Evaluator decision outcomes.
const (
	OutcomeAssigned       = "assigned"
	OutcomeNoRacks        = "no_racks"
	OutcomeAllAtCapacity  = "all_at_capacity"
	OutcomeInvalidRequest = "invalid_request"
)

// ObserveHTTPRequest records one completed request.
func ObserveHTTPRequest(route, method, status string, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func TrackInFlight() func() {
	httpRequestsInFlight.Inc()
	return httpRequestsInFlight.Dec
}

// RecordDecision counts one placement evaluation outcome.
func RecordDecision(outcome string) {
	assignmentDecisions.WithLabelValues(outcome).Inc()
}

// RecordReservationConflict counts a lost conditional slot update.
func RecordReservationConflict() {
	reservationConflicts.Inc()
}

// RecordWorkerEvent counts one processed pubsub event.
func RecordWorkerEvent(event, result string) {
	workerEvents.WithLabelValues(event, result).Inc()
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
