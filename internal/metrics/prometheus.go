package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "genre"

// Prometheus holds the collectors of the training metrics.
type Prometheus struct {
	Rate       *prometheus.GaugeVec
	Error      *prometheus.GaugeVec
	Misses     *prometheus.GaugeVec
	Iterations *prometheus.CounterVec
	Sessions   *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Rate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "training",
				Name:      "rate",
				Help:      "learning rate of the last iteration",
			}, []string{"session"}),
		Error: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "training",
				Name:      "xval_error",
				Help:      "cross-validation error after the last iteration",
			}, []string{"session"}),
		Misses: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "training",
				Name:      "misses",
				Help:      "consecutive iterations without improvement",
			}, []string{"session"}),
		Iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "training",
				Name:      "iterations_total",
			}, []string{"session"}),
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "training",
				Name:      "sessions_total",
			}, []string{"result"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Rate, p.Error, p.Misses, p.Iterations, p.Sessions}
}
