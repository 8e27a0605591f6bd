package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat pipeline counters. Registered on a dedicated registry so tests can
// create cores without double-registration panics.
type Chat struct {
	Requests          *prometheus.CounterVec
	RetrievalFallback prometheus.Counter
	GenerationLatency prometheus.Histogram
	DegradedAnswers   prometheus.Counter
}

type Manager struct {
	registry *prometheus.Registry
	Chat     Chat
}

func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Manager{
		registry: registry,
		Chat: Chat{
			Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "requests_total",
				Help:      "Chat messages processed, labeled by knowledge mode.",
			}, []string{"mode"}),
			RetrievalFallback: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "retrieval",
				Name:      "fallback_total",
				Help:      "Retrievals served by the lexical fallback path.",
			}),
			GenerationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "llm",
				Name:      "generation_seconds",
				Help:      "Latency of text generation calls.",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
			}),
			DegradedAnswers: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "llm",
				Name:      "degraded_answers_total",
				Help:      "Generation calls answered with a canned degradation message.",
			}),
		},
	}

	registry.MustRegister(
		m.Chat.Requests,
		m.Chat.RetrievalFallback,
		m.Chat.GenerationLatency,
		m.Chat.DegradedAnswers,
	)
	return m
}

func (m *Manager) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
