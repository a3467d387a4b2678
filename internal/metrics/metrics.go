// Package metrics exposes Prometheus collectors for ticket operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	ticketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_operations_total",
			Help: "Total ticket operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	ticketsInSection = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickets_in_section",
			Help: "Current number of tickets seated in each section",
		},
		[]string{"section"},
	)
)

// TrackOperation counts one ticket operation with its outcome.
func TrackOperation(operation, outcome string) {
	ticketOperations.WithLabelValues(operation, outcome).Inc()
}

// SetSectionCounts publishes the per-section ticket counts.
func SetSectionCounts(counts map[string]int) {
	for section, n := range counts {
		ticketsInSection.WithLabelValues(section).Set(float64(n))
	}
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
