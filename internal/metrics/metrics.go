package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/iljakuklic/sfc-project/internal/ml/classifier"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Metrics exports the progress of the training sessions.
type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
	registry   *prometheus.Registry
	last       map[string]classifier.Iteration
}

// New creates the metrics with their own registry.
func New() *Metrics {
	p := NewPrometheusMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(p.collectors()...)
	return &Metrics{
		mutex:      new(sync.RWMutex),
		prometheus: p,
		registry:   registry,
		last:       make(map[string]classifier.Iteration),
	}
}

// Observe records a training iteration.
func (m *Metrics) Observe(it classifier.Iteration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.prometheus.Rate.WithLabelValues(it.Session).Set(it.Rate)
	m.prometheus.Error.WithLabelValues(it.Session).Set(it.Error)
	m.prometheus.Misses.WithLabelValues(it.Session).Set(float64(it.Misses))
	m.prometheus.Iterations.WithLabelValues(it.Session).Inc()
	m.last[it.Session] = it
}

// Finish records the outcome of a training session.
func (m *Metrics) Finish(session string, ok bool) {
	result := "failed"
	if ok {
		result = "converged"
	}
	m.prometheus.Sessions.WithLabelValues(result).Inc()
}

// Last returns the last recorded iteration of the session.
func (m *Metrics) Last(session string) (classifier.Iteration, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	it, ok := m.last[session]
	return it, ok
}

// Handler returns the http handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics on the given address in the background.
func (m *Metrics) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	return srv
}
