package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/fetch"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopper_searches_total",
			Help: "Total number of source searches executed",
		},
		[]string{"source", "outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopper_search_duration_seconds",
			Help:    "Duration of one source search in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	PagesAnalyzedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopper_pages_analyzed_total",
			Help: "Total number of product pages fetched and analyzed",
		},
		[]string{"source", "status"},
	)

	ListingsFoundTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopper_listings_found_total",
			Help: "Total number of product listings extracted per source",
		},
		[]string{"source"},
	)
)

// RecordSearch updates the search counters for one source run.
func RecordSearch(source string, outcome string, elapsed time.Duration) {
	SearchesTotal.WithLabelValues(source, outcome).Inc()
	SearchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// RecordPage records one product page fetch attempt.
func RecordPage(source string, res *fetch.Result) {
	if res == nil {
		return
	}
	status := strconv.Itoa(res.StatusCode)
	if res.Error != "" {
		status = "error"
	}
	PagesAnalyzedTotal.WithLabelValues(source, status).Inc()
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
