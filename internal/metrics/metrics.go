// Package metrics expõe métricas Prometheus do motor de recomendação.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "related_articles"

var (
	// CacheLookups conta consultas ao cache por resultado (hit, miss, error, skipped)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total de consultas ao cache de recomendações por resultado",
		},
		[]string{"result"},
	)

	// CacheWrites conta gravações no cache por status
	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writes_total",
			Help:      "Total de gravações no cache de recomendações",
		},
		[]string{"status"},
	)

	// Invalidations conta invalidações por tipo (targeted, broad) e status
	Invalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidations_total",
			Help:      "Total de invalidações do cache de recomendações",
		},
		[]string{"kind", "status"},
	)

	// ComputeDuration mede o tempo de cálculo de uma recomendação (cache miss)
	ComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Duração do cálculo de artigos relacionados",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// FallbackPadded conta artigos adicionados por popularidade
	FallbackPadded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_padded_articles_total",
			Help:      "Total de artigos adicionados pelo fallback de popularidade",
		},
	)

	// CacheBreakerState indica o estado do circuit breaker do cache (0 = closed, 1 = half-open, 2 = open)
	CacheBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_breaker_state",
			Help:      "Estado do circuit breaker do cache (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordCacheLookup registra o resultado de uma consulta ao cache
func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

// RecordCacheWrite registra uma gravação no cache
func RecordCacheWrite(status string) {
	CacheWrites.WithLabelValues(status).Inc()
}

// RecordInvalidation registra uma invalidação
func RecordInvalidation(kind, status string) {
	Invalidations.WithLabelValues(kind, status).Inc()
}
