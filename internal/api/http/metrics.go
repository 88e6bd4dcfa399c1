package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Move results recorded in reversi_moves_total.
const (
	resultApplied  = "applied"
	resultRejected = "rejected"
)

var (
	// gamesCreated counts games created through the API by mode
	gamesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reversi_games_created_total",
		Help: "Total games created by mode",
	}, []string{"mode"})

	// movesTotal counts submitted moves by mode and result
	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reversi_moves_total",
		Help: "Total submitted moves by mode and result",
	}, []string{"mode", "result"})

	// moveDuration tracks move latency, including the computer reply in single mode
	moveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reversi_move_duration_seconds",
		Help:    "Move handling duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
	}, []string{"mode"})

	// wsConnections tracks open event streams
	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reversi_ws_connections",
		Help: "Open websocket event streams",
	})
)
