package heroes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeSkipped = "skipped"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "heroes_client",
		Name:      "operations_total",
		Help:      "Gateway operations by outcome. Failures were replaced by a fallback value.",
	},
	[]string{"operation", "outcome"},
)

func observe(operation, outcome string) {
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}
