// Package telemetry exposes service counters through expvar, served at
// /debug/vars.
package telemetry

import (
	"expvar"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

var (
	requestsTotal           = expvar.NewInt("requests_total")
	requestsErrorsTotal     = expvar.NewInt("requests_errors_total")
	requestLatencyMsTotal   = expvar.NewInt("request_latency_ms_total")
	requestLatencySamples   = expvar.NewInt("request_latency_samples_total")
	requestsByRoute         = expvar.NewMap("requests_by_route")
	requestErrorsByRoute    = expvar.NewMap("request_errors_by_route")
	priceFailuresByProvider = expvar.NewMap("price_provider_failures_total")
	newsFailuresTotal       = expvar.NewInt("news_provider_failures_total")
	fallbackInvokedTotal    = expvar.NewInt("price_fallback_invocations_total")
	generationFailuresTotal = expvar.NewInt("generation_failures_total")
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestMetricsMiddleware records request volume, error rate, and latency
// per route.
func RequestMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		route := requestRoute(r)
		key := strings.TrimSpace(r.Method + " " + route)
		if key == "" {
			key = r.Method + " /unknown"
		}

		requestsTotal.Add(1)
		requestsByRoute.Add(key, 1)

		if recorder.status >= http.StatusBadRequest {
			requestsErrorsTotal.Add(1)
			requestErrorsByRoute.Add(key, 1)
		}

		requestLatencyMsTotal.Add(time.Since(start).Milliseconds())
		requestLatencySamples.Add(1)
	})
}

func requestRoute(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return strings.TrimSpace(r.URL.Path)
}

func PriceFailure(provider string) {
	priceFailuresByProvider.Add(provider, 1)
}

func NewsFailure() {
	newsFailuresTotal.Add(1)
}

func FallbackInvoked() {
	fallbackInvokedTotal.Add(1)
}

func GenerationFailure() {
	generationFailuresTotal.Add(1)
}
