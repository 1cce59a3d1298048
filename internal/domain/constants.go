package domain

// Context keys used in LedgerEntry.Context maps.
const (
	ContextKeyCategory     = "category"
	ContextKeyCounterparty = "counterparty"
	ContextKeyDirection    = "direction"
	ContextKeyDestination  = "destination"
	ContextKeyReason       = "reason"
)

// Transfer directions recorded in entry context.
const (
	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"
)

// Pagination defaults shared by history and item listings.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)
