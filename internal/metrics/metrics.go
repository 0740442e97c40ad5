package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"ntfydispatch/internal/notifications"
	"ntfydispatch/internal/services"
)

const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

// Collector records dispatch metrics into a private registry.
type Collector struct {
	registry *prometheus.Registry
	total    *prometheus.CounterVec
	duration prometheus.Histogram
}

// New builds a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ntfy_dispatch_total",
				Help: "Notification dispatch attempts by outcome and error kind.",
			},
			[]string{"outcome", "kind"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ntfy_dispatch_duration_seconds",
				Help:    "Time spent posting a notification and reading the relay response.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
	}
	c.registry.MustRegister(c.total, c.duration)
	return c
}

// ObserveDispatch implements notifications.Observer.
func (c *Collector) ObserveDispatch(_ context.Context, event notifications.Event) {
	if c == nil {
		return
	}
	outcome := outcomeOK
	if event.Err != nil {
		outcome = outcomeFailed
	}
	c.total.WithLabelValues(outcome, services.Kind(event.Err)).Inc()
	c.duration.Observe(event.Duration.Seconds())
}

// WriteTextfile atomically writes the registry to path in the Prometheus text
// format. An empty path is a no-op.
func (c *Collector) WriteTextfile(path string) error {
	path = strings.TrimSpace(path)
	if c == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
