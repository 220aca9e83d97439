// Package metrics counts every degraded path a run takes, so a results file
// can state how much of the run actually exercised the oracle versus
// deterministic fallbacks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fallback path labels.
const (
	FallbackCustomerGeneration = "customer_generation"
	FallbackDecision           = "decision"
	FallbackMenuChoice         = "menu_choice"
	FallbackReviewText         = "review_text"
	FallbackSeedSynthesis      = "seed_synthesis"
	FallbackCustomerRecovered  = "customer_recovered"
)

var (
	registry = prometheus.NewRegistry()

	fallbackCounter = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulator_fallback_total",
			Help: "Number of times a run degraded to a deterministic fallback, by path.",
		},
		[]string{"path"},
	)
)

// Registry exposes the simulator's metric registry for scraping or dumping.
func Registry() *prometheus.Registry {
	return registry
}

// RecordFallback increments the counter for one degraded path.
func RecordFallback(path string) {
	fallbackCounter.WithLabelValues(path).Inc()
}

// FallbackCounts reads every fallback counter back out, keyed by path. Paths
// never hit are absent.
func FallbackCounts() map[string]int {
	counts := map[string]int{}
	families, err := registry.Gather()
	if err != nil {
		return counts
	}
	for _, mf := range families {
		if mf.GetName() != "simulator_fallback_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "path" {
					counts[lp.GetValue()] = int(m.GetCounter().GetValue())
				}
			}
		}
	}
	return counts
}
