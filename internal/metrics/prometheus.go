package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Operations *prometheus.CounterVec
	Durations  *prometheus.HistogramVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "masc",
				Name:      "operations",
			}, []string{"operation", "outcome"}),
		Durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "masc",
				Name:      "operation_duration_seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
			}, []string{"operation"}),
	}
}
