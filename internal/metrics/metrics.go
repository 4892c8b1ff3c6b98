package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimulationsRun = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "botdemo_simulations_total",
		Help: "Total number of simulated bot runs",
	}, []string{"bot_type"})

	SimulationROI = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "botdemo_simulation_roi_percent",
		Help:    "Target ROI of simulated runs",
		Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 80, 100},
	}, []string{"bot_type"})

	SimulationsUnscaled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "botdemo_simulations_unscaled_total",
		Help: "Simulated batches whose rescaling was skipped because the raw return was zero",
	})

	DemoTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "botdemo_demo_transitions_total",
		Help: "State transitions of the copy-trading demo",
	}, []string{"state"})

	DemoSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "botdemo_demo_sessions_active",
		Help: "Number of live demo sessions",
	})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "botdemo_ws_connections",
		Help: "Number of open demo stream connections",
	})

	FormSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "botdemo_form_submissions_total",
		Help: "Public form submissions by form and outcome",
	}, []string{"form", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "botdemo_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
