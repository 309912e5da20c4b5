// Package metrics exposes Prometheus metrics for the game server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "partyhub"

var (
	// RoomsActive tracks the number of rooms currently registered.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rooms_active",
		Help:      "Number of rooms currently registered.",
	})

	// ConnectionsOpen tracks open WebSocket connections across all rooms.
	ConnectionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_open",
		Help:      "Open WebSocket connections across all rooms.",
	})

	// BroadcastsSent counts events enqueued to subscribers.
	BroadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_sent_total",
		Help:      "Events enqueued to room subscribers.",
	})

	// BroadcastFailures counts delivery failures that deregistered a connection.
	BroadcastFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_failures_total",
		Help:      "Delivery failures that caused a connection to be dropped.",
	})

	// ActionsTotal counts inbound client actions by action name.
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Inbound client actions by action name.",
	}, []string{"action"})

	// GamesStarted counts sessions started by game type.
	GamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_started_total",
		Help:      "Game sessions started, by game type.",
	}, []string{"type"})

	// GamesEnded counts sessions reaching a terminal state by type and outcome.
	GamesEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_ended_total",
		Help:      "Game sessions ended, by game type and outcome (finished or stopped).",
	}, []string{"type", "outcome"})
)
