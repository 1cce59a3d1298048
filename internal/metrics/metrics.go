package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Ledger Metrics
var (
	LedgerEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLedgerEntriesTotal,
			Help: HelpTextLedgerEntriesTotal,
		},
		[]string{LabelKind},
	)

	LedgerWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerWriteFailures,
			Help: HelpTextLedgerWriteFailures,
		},
	)
)

// Chain Metrics
var (
	ChainCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChainCallsTotal,
			Help: HelpTextChainCallsTotal,
		},
		[]string{LabelOperation, LabelOutcome},
	)
)

// Reconciliation Metrics
var (
	AccountsDiverged = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameAccountsDiverged,
			Help: HelpTextAccountsDiverged,
		},
	)

	ReconciliationRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReconciliationRuns,
			Help: HelpTextReconciliationRuns,
		},
	)
)
