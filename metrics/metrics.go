// Package metrics exposes job counters in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	RecordsMapped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crimecount_records_mapped_total",
			Help: "Records that produced a key",
		},
		[]string{"job"},
	)

	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crimecount_records_skipped_total",
			Help: "Records dropped by the mapper",
		},
		[]string{"job", "reason"}, // field_count, no_key
	)

	KeysReduced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crimecount_keys_reduced_total",
			Help: "Distinct keys written by reducers",
		},
		[]string{"job"},
	)

	TaskDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crimecount_task_duration_seconds",
			Help:    "Duration of map and reduce tasks",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~163s
		},
		[]string{"phase"}, // map, reduce
	)
)

// ObserveTask records the duration of a task that began at started.
func ObserveTask(phase string, started time.Time) {
	TaskDurationSeconds.WithLabelValues(phase).Observe(time.Since(started).Seconds())
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server: %v", err)
		}
	}()
	log.Infof("metrics listening on %s", addr)
	return srv
}
