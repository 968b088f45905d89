// Package metrics holds the Prometheus collectors for upstream calls and
// radius searches.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "navermcp"

// Outcome labels for UpstreamRequests.
const (
	OutcomeOK          = "ok"
	OutcomeBadRequest  = "bad_request"
	OutcomeAuth        = "auth"
	OutcomeRateLimited = "rate_limited"
	OutcomeUpstream    = "upstream_error"
	OutcomeTransport   = "transport_error"
	OutcomeCircuitOpen = "circuit_open"
)

var (
	// Registry is private so that tests can create servers repeatedly
	// without duplicate registration panics on the default registerer.
	Registry = prometheus.NewRegistry()

	// UpstreamRequests counts Naver API calls by api and outcome.
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Naver API requests by api and outcome.",
	}, []string{"api", "outcome"})

	// UpstreamLatency is the wall time of each Naver API call, breaker included.
	UpstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Naver API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"api"})

	// RadiusSearchPages is the number of upstream pages one radius search fetched.
	RadiusSearchPages = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "radius_search_pages",
		Help:      "Upstream pages fetched per localSearchByCoordinate call.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 20},
	})

	// RadiusSearchResults is the number of items found inside the radius, before
	// truncation to display.
	RadiusSearchResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "radius_search_results",
		Help:      "Items inside the radius per localSearchByCoordinate call.",
		Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
	})
)

func init() {
	Registry.MustRegister(
		UpstreamRequests,
		UpstreamLatency,
		RadiusSearchPages,
		RadiusSearchResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveUpstream records one upstream call.
func ObserveUpstream(api, outcome string, elapsed time.Duration) {
	UpstreamRequests.WithLabelValues(api, outcome).Inc()
	UpstreamLatency.WithLabelValues(api).Observe(elapsed.Seconds())
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
