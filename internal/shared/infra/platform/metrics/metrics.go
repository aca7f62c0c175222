package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados posibles de un mensaje del stream.
const (
	OutcomeRendered  = "rendered"
	OutcomeHeartbeat = "heartbeat"
	OutcomeMalformed = "malformed"
)

var (
	StreamMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alpesui_stream_messages_total",
		Help: "Mensajes recibidos del stream de notificaciones, por resultado.",
	}, []string{"outcome"})

	StreamConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alpesui_stream_connected",
		Help: "1 si la suscripción al stream está abierta, 0 si no.",
	})

	GraphQLRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alpesui_graphql_requests_total",
		Help: "Peticiones GraphQL enviadas, por operación y resultado (ok, transport, domain).",
	}, []string{"operation", "result"})

	GraphQLDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alpesui_graphql_request_duration_seconds",
		Help:    "Latencia de ida y vuelta de las peticiones GraphQL.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	FeedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alpesui_feed_subscribers",
		Help: "Navegadores conectados al relay SSE de notificaciones.",
	})
)
