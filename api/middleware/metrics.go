package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/davidquintana/archivio-backend/pkg/metrics"
)

// Metrics records per-route latency and in-flight gauges. Routes are labeled
// by chi pattern so path parameters don't explode cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := metrics.TrackInFlight()
			defer done()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			metrics.ObserveHTTPRequest(routePattern(r), r.Method, strconv.Itoa(status), time.Since(start))
		})
	}
}
