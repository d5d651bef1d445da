package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	interactionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "decoynet_interactions_total",
		Help: "Total number of decoy interactions recorded, by endpoint kind",
	}, []string{"kind"})
	alertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "decoynet_alerts_total",
		Help: "Total number of alerts escalated, by severity",
	}, []string{"severity"})
	predictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "decoynet_predictions_total",
		Help: "Total number of predictions persisted",
	})
	inferenceFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "decoynet_inference_failures_total",
		Help: "Total number of failed inference calls",
	})
	simulationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "decoynet_simulations_total",
		Help: "Total number of simulation runs started",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(interactionsTotal, alertsTotal, predictionsTotal, inferenceFailuresTotal, simulationsTotal)
}

// IncInteraction increments the recorded interactions counter for a kind.
func IncInteraction(kind string) { interactionsTotal.WithLabelValues(kind).Inc() }

// IncAlert increments the escalated alerts counter for a severity.
func IncAlert(severity string) { alertsTotal.WithLabelValues(severity).Inc() }

// IncPrediction increments the persisted predictions counter.
func IncPrediction() { predictionsTotal.Inc() }

// IncInferenceFailure increments the failed inference calls counter.
func IncInferenceFailure() { inferenceFailuresTotal.Inc() }

// IncSimulation increments the started simulations counter.
func IncSimulation() { simulationsTotal.Inc() }
