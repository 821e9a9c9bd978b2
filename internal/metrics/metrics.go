// Package metrics exposes Prometheus instrumentation for the API mediator
// and the tool surface.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mediator outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeRequestError    = "request_error"
	OutcomeInvalidResponse = "invalid_response"
	OutcomeHTTPError       = "http_error"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "intervals_mcp",
		Subsystem: "mediator",
		Name:      "requests_total",
		Help:      "Requests sent to the Intervals.icu API by outcome.",
	}, []string{"outcome"})

	requestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "intervals_mcp",
		Subsystem: "mediator",
		Name:      "request_duration_seconds",
		Help:      "Latency of requests sent to the Intervals.icu API.",
		Buckets:   prometheus.DefBuckets,
	})

	toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "intervals_mcp",
		Subsystem: "tools",
		Name:      "calls_total",
		Help:      "Tool invocations by tool name.",
	}, []string{"tool"})

	toolDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "intervals_mcp",
		Subsystem: "tools",
		Name:      "call_duration_seconds",
		Help:      "Tool invocation latency by tool name.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, toolCalls, toolDuration)
}

// RecordRequest counts one mediator request and its latency.
func RecordRequest(outcome string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(outcome).Inc()
	requestDuration.Observe(elapsed.Seconds())
}

// RecordToolCall counts one tool invocation and its latency.
func RecordToolCall(tool string, elapsed time.Duration) {
	toolCalls.WithLabelValues(tool).Inc()
	toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve runs a metrics listener on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *log.Logger) error {
	srv := &http.Server{Addr: addr, Handler: Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown error", "err", err)
	}
	return nil
}
