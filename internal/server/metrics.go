package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sessionSource func() int

var _ = promauto.NewGaugeFunc(
	prometheus.GaugeOpts{
		Name: "reportbot_active_sessions",
		Help: "Number of live dialogue sessions held in memory",
	},
	func() float64 {
		if sessionSource == nil {
			return 0
		}
		return float64(sessionSource())
	},
)

var webhookRejects = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reportbot_webhook_rejects_total",
		Help: "Total number of webhook bodies rejected at decode",
	},
)

// SetSessionSource wires the gauge to the live session store. Call it
// once at startup, before the server starts serving.
func SetSessionSource(f func() int) {
	sessionSource = f
}
