package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.Operations)
	prometheus.MustRegister(Observer.prometheus.Durations)
}

type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
}

// Increment counts one classifier operation for the given {operation, outcome} pair.
func (m *Metrics) Increment(labels ...string) {
	m.prometheus.Operations.WithLabelValues(labels...).Inc()
}

// Observe records the duration of one classifier operation.
func (m *Metrics) Observe(d time.Duration, labels ...string) {
	m.prometheus.Durations.WithLabelValues(labels...).Observe(d.Seconds())
}
