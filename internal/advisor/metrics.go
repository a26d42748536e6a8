package advisor

import "github.com/prometheus/client_golang/prometheus"

var requestOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "cardadvisor",
		Subsystem: "advisor",
		Name:      "requests_total",
		Help:      "Outbound recommendation requests by outcome",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(requestOutcomes)
}
