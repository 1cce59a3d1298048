package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Ledger errors
	ErrMsgInsufficientBalance    = "insufficient balance"
	ErrMsgAccountNotFound        = "custodial account not found"
	ErrMsgDuplicateConfirmation  = "confirmation token already applied"
	ErrMsgLedgerWriteFailed      = "ledger write failed after chain mutation"

	// Chain errors
	ErrMsgChainUnavailable = "chain unavailable"
	ErrMsgChainTimeout     = "chain call timed out with unknown outcome"
	ErrMsgChainRejected    = "chain rejected operation"

	// Item errors
	ErrMsgItemNotFound = "item not found"
	ErrMsgItemNotHeld  = "item is not held in custody"
	ErrMsgSlotTaken    = "slot already occupied"

	// Validation errors
	ErrMsgInvalidAmount  = "invalid amount"
	ErrMsgAmountTooSmall = "amount below minimum withdrawable unit"
	ErrMsgInvalidInput   = "invalid input"
	ErrMsgUnknownAsset   = "unknown asset"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Ledger errors
	ErrInsufficientBalance   = errors.New(ErrMsgInsufficientBalance)
	ErrAccountNotFound       = errors.New(ErrMsgAccountNotFound)
	ErrDuplicateConfirmation = errors.New(ErrMsgDuplicateConfirmation)

	// ErrLedgerWriteFailed marks the most serious failure class: the chain
	// mutation landed but the matching ledger write did not. Callers must log
	// full replay context (token, amount, player, mint) before surfacing it.
	ErrLedgerWriteFailed = errors.New(ErrMsgLedgerWriteFailed)

	// Chain errors
	ErrChainUnavailable = errors.New(ErrMsgChainUnavailable)
	ErrChainTimeout     = errors.New(ErrMsgChainTimeout)
	ErrChainRejected    = errors.New(ErrMsgChainRejected)

	// Item errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)
	ErrItemNotHeld  = errors.New(ErrMsgItemNotHeld)
	ErrSlotTaken    = errors.New(ErrMsgSlotTaken)

	// Validation errors
	ErrInvalidAmount  = errors.New(ErrMsgInvalidAmount)
	ErrAmountTooSmall = errors.New(ErrMsgAmountTooSmall)
	ErrInvalidInput   = errors.New(ErrMsgInvalidInput)
	ErrUnknownAsset   = errors.New(ErrMsgUnknownAsset)
)

// Retryable reports whether an error is safe to retry with the same
// idempotency key. Chain timeouts are retryable only because every mutating
// chain call carries a pre-generated request id; without it a retry could
// double-apply.
func Retryable(err error) bool {
	return errors.Is(err, ErrChainUnavailable) || errors.Is(err, ErrChainTimeout)
}
