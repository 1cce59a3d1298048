package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal     = "http_requests_total"
	MetricNameHTTPRequestDuration   = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight  = "http_requests_in_flight"
	MetricNameLedgerEntriesTotal    = "ledger_entries_total"
	MetricNameLedgerWriteFailures   = "ledger_write_failures_total"
	MetricNameChainCallsTotal       = "chain_calls_total"
	MetricNameAccountsDiverged      = "reconciliation_accounts_diverged"
	MetricNameReconciliationRuns    = "reconciliation_runs_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"
	HelpTextLedgerEntriesTotal   = "Total ledger entries appended, by kind"
	HelpTextLedgerWriteFailures  = "Ledger writes that failed after a chain mutation landed"
	HelpTextChainCallsTotal      = "Chain adapter calls, by operation and outcome"
	HelpTextAccountsDiverged     = "Custodial accounts whose on-chain balance diverged from the ledger at last sync"
	HelpTextReconciliationRuns   = "Completed reconciliation passes"
)

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelKind      = "kind"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
)

// Chain call outcomes
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
	OutcomeRejected = "rejected"
)

// HTTPLatencyBuckets are tuned for a service whose slow path waits on chain
// confirmation (seconds, not milliseconds).
var HTTPLatencyBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
