package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: type (message/callback/other)
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reportbot_updates_total",
			Help: "Total number of Telegram updates processed by type",
		},
		[]string{"type"},
	)

	callbackParseErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reportbot_callback_parse_errors_total",
			Help: "Total number of callback payloads rejected at decode",
		},
	)

	handlerPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reportbot_handler_panics_total",
			Help: "Total number of panics recovered while processing updates",
		},
	)
)
