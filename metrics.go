package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingest sources and results used as metric labels.
const (
	sourceHTTP = "http"
	sourceMQTT = "mqtt"

	resultSuccess            = "success"
	resultInvalidContentType = "invalid_content_type"
	resultError              = "error"
)

var (
	// ingestTotal counts ingest attempts by source and outcome.
	ingestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "emg",
		Name:      "ingest_total",
		Help:      "Readings received, by source and result.",
	}, []string{"source", "result"})

	// ingestBytes observes the size of every stored reading.
	ingestBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "emg",
		Name:      "ingest_bytes",
		Help:      "Size of stored readings in bytes.",
		Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
	})

	websocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "emg",
		Name:      "websocket_clients",
		Help:      "Currently connected WebSocket clients.",
	})

	broadcastDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "emg",
		Name:      "broadcast_dropped_total",
		Help:      "Readings dropped because the broadcast queue was full.",
	})
)
