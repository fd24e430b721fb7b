// Package metrics records per-run Prometheus metrics and writes them for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors for one process
type Recorder struct {
	registry *prometheus.Registry

	runsTotal          *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	fetchDuration      prometheus.Histogram
	roomAvailable      prometheus.Gauge
	lastRunTimestamp   prometheus.Gauge
}

// New builds a Recorder backed by a private registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "room_watch_runs_total",
				Help: "Total number of checks, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "room_watch_notifications_total",
				Help: "Total number of notification attempts, labeled by result.",
			},
			[]string{"result"},
		),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "room_watch_fetch_duration_seconds",
			Help:    "Duration of listings page fetches.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		roomAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "room_watch_room_available",
			Help: "1 when the persisted state is room, 0 otherwise.",
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "room_watch_last_run_timestamp_seconds",
			Help: "Unix time of the most recent completed check.",
		}),
	}

	r.registry.MustRegister(
		r.runsTotal,
		r.notificationsTotal,
		r.fetchDuration,
		r.roomAvailable,
		r.lastRunTimestamp,
	)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordRun counts a finished run
func (r *Recorder) RecordRun(outcome string, at time.Time) {
	r.runsTotal.WithLabelValues(outcome).Inc()
	r.lastRunTimestamp.Set(float64(at.Unix()))
}

// RecordFetch observes one fetch duration
func (r *Recorder) RecordFetch(d time.Duration) {
	r.fetchDuration.Observe(d.Seconds())
}

// RecordNotification counts a notification attempt; result is sent, failed or skipped
func (r *Recorder) RecordNotification(result string) {
	r.notificationsTotal.WithLabelValues(result).Inc()
}

// SetRoomAvailable mirrors the persisted state
func (r *Recorder) SetRoomAvailable(available bool) {
	if available {
		r.roomAvailable.Set(1)
		return
	}
	r.roomAvailable.Set(0)
}

// WriteTextfile writes all metrics in the text exposition format. The write is atomic,
// so node_exporter never scrapes a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
