// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "admarket"

// Metrics holds all client-side metrics
type Metrics struct {
	registry *prometheus.Registry

	// API metrics
	APIRequests   *prometheus.CounterVec
	APILatency    *prometheus.HistogramVec
	NetworkErrors prometheus.Counter

	// Deal metrics
	Transitions *prometheus.CounterVec

	// Escrow metrics
	Payments *prometheus.CounterVec

	// Connectivity
	Online prometheus.Gauge
}

// NewMetrics creates a new metrics instance on a private registry
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
	}

	m.APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests by endpoint and HTTP status",
		},
		[]string{"endpoint", "status"},
	)

	m.APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Time to complete an API request",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	m.NetworkErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_network_errors_total",
		Help:      "Total number of API calls that failed at the transport level",
	})

	m.Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deal_transitions_total",
			Help:      "Total number of deal actions dispatched by target status and outcome",
		},
		[]string{"status", "outcome"},
	)

	m.Payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escrow_payments_total",
			Help:      "Total number of wallet transactions requested by outcome",
		},
		[]string{"outcome"},
	)

	m.Online = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connectivity_online",
		Help:      "1 when the API is reachable, 0 otherwise",
	})

	collectors := []prometheus.Collector{
		m.APIRequests,
		m.APILatency,
		m.NetworkErrors,
		m.Transitions,
		m.Payments,
		m.Online,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// GetGatherer returns the prometheus gatherer for metrics export
func (m *Metrics) GetGatherer() prometheus.Gatherer {
	return m.registry
}

// GetRegisterer returns the prometheus registerer
func (m *Metrics) GetRegisterer() prometheus.Registerer {
	return m.registry
}

// Outcome labels shared by the counters above.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)
