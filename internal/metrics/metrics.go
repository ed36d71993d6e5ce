// Package metrics exposes refresh and capture counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TicksTotal counts completed refresh cycles
	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hogwatch_ticks_total",
			Help: "Total number of completed refresh cycles",
		},
	)

	// Processes tracks the number of processes in the graph after the last refresh
	Processes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hogwatch_processes",
			Help: "Number of processes shown in the last refresh, sentinels included",
		},
	)

	// EvictedProcessesTotal counts processes removed for inactivity
	EvictedProcessesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hogwatch_evicted_processes_total",
			Help: "Total number of processes evicted after the process timeout",
		},
	)

	// EvictedConnectionsTotal counts connections removed for inactivity
	EvictedConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hogwatch_evicted_connections_total",
			Help: "Total number of connections evicted after the connection timeout",
		},
	)

	// TickDuration tracks how long one aggregation pass takes in seconds
	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hogwatch_tick_duration_seconds",
			Help:    "Duration of the eviction and aggregation pass in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		},
	)

	// PacketsTotal counts decoded packets by protocol and attribution
	PacketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hogwatch_packets_total",
			Help: "Total number of captured packets accounted into the graph",
		},
		[]string{"proto", "attributed"},
	)

	// BytesTotal counts captured bytes by direction
	BytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hogwatch_bytes_total",
			Help: "Total number of captured bytes by direction",
		},
		[]string{"direction"},
	)
)

// RecordTick records the outcome of one refresh cycle
func RecordTick(processes, evictedProcs, evictedConns int, d time.Duration) {
	TicksTotal.Inc()
	Processes.Set(float64(processes))
	EvictedProcessesTotal.Add(float64(evictedProcs))
	EvictedConnectionsTotal.Add(float64(evictedConns))
	TickDuration.Observe(d.Seconds())
}

// RecordPacket records one accounted packet
func RecordPacket(proto, direction string, attributed bool, bytes int) {
	attr := "false"
	if attributed {
		attr = "true"
	}
	PacketsTotal.WithLabelValues(proto, attr).Inc()
	BytesTotal.WithLabelValues(direction).Add(float64(bytes))
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
