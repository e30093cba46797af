package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DonationsRecorded counts donation rows written, by status and payment method.
	DonationsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carebridge",
		Name:      "donations_recorded_total",
		Help:      "Number of donation records written to the store.",
	}, []string{"status", "payment_method"})

	// DonationFailures counts recording attempts rejected before persistence.
	DonationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carebridge",
		Name:      "donation_failures_total",
		Help:      "Number of donation requests rejected or failed.",
	}, []string{"reason"})

	// BridgeCalls counts outbound payment bridge calls by bridge and outcome.
	BridgeCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carebridge",
		Name:      "payment_bridge_calls_total",
		Help:      "Number of payment bridge invocations.",
	}, []string{"bridge", "outcome"})

	// CampaignsReconciled counts campaigns whose cached aggregates the
	// reconciler had to repair.
	CampaignsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "carebridge",
		Name:      "campaigns_reconciled_total",
		Help:      "Number of campaigns with corrected aggregates.",
	})

	// HTTPRequestDuration observes handler latency by method and status class.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "carebridge",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)
